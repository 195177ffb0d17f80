package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketindex/rocketindex/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fooSymbol() model.Symbol {
	return model.Symbol{
		Name:       "Foo",
		Qualified:  "pkg.Foo",
		Kind:       model.KindFunction,
		Location:   model.Location{File: "a.go", StartLine: 3, StartCol: 1, EndLine: 5, EndCol: 1},
		Visibility: model.Public,
		Language:   "go",
		Signature:  "func Foo()",
	}
}

func TestReplaceFile_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	result := &model.ParseResult{
		Symbols:    []model.Symbol{fooSymbol()},
		References: []model.Reference{{Name: "Bar", Location: model.Location{File: "a.go", StartLine: 4, StartCol: 2, EndLine: 4, EndCol: 5}}},
		Opens:      []model.ImportStatement{{Path: "pkg/other"}},
	}
	meta := model.FileMetadata{Path: "a.go", MTimeUnix: 100, ContentHash: "h1", Language: "go"}
	require.NoError(t, s.ReplaceFile("a.go", meta, result, time.Unix(100, 0)))

	sym, err := s.FindByQualified("pkg.Foo")
	require.NoError(t, err)
	require.NotNil(t, sym)
	assert.Equal(t, model.KindFunction, sym.Kind)

	refs, err := s.ReferencesInFile("a.go")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Bar", refs[0].Name)

	opens, err := s.OpensForFile("a.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/other"}, opens)

	n, err := s.CountSymbols()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReplaceFile_IsAtomicReplace(t *testing.T) {
	s := openTestStore(t)

	first := &model.ParseResult{Symbols: []model.Symbol{fooSymbol()}}
	require.NoError(t, s.ReplaceFile("a.go", model.FileMetadata{Path: "a.go", Language: "go"}, first, time.Unix(1, 0)))

	renamed := fooSymbol()
	renamed.Name = "Baz"
	renamed.Qualified = "pkg.Baz"
	second := &model.ParseResult{Symbols: []model.Symbol{renamed}}
	require.NoError(t, s.ReplaceFile("a.go", model.FileMetadata{Path: "a.go", Language: "go"}, second, time.Unix(2, 0)))

	old, err := s.FindByQualified("pkg.Foo")
	require.NoError(t, err)
	assert.Nil(t, old)

	updated, err := s.FindByQualified("pkg.Baz")
	require.NoError(t, err)
	require.NotNil(t, updated)
}

func TestSearch_WildcardAndExactFirst(t *testing.T) {
	s := openTestStore(t)
	result := &model.ParseResult{Symbols: []model.Symbol{
		fooSymbol(),
		{Name: "FooBar", Qualified: "pkg.FooBar", Kind: model.KindFunction, Location: model.Location{File: "a.go", StartLine: 10, StartCol: 1, EndLine: 10, EndCol: 1}, Language: "go"},
	}}
	require.NoError(t, s.ReplaceFile("a.go", model.FileMetadata{Path: "a.go", Language: "go"}, result, time.Unix(1, 0)))

	matches, err := s.Search("Foo*", 10, "")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	exact, err := s.Search("Foo", 10, "")
	require.NoError(t, err)
	require.NotEmpty(t, exact)
	assert.Equal(t, "Foo", exact[0].Name)
}

func TestFuzzySearch_ExcludesExactAndRespectsMaxDistance(t *testing.T) {
	s := openTestStore(t)
	result := &model.ParseResult{Symbols: []model.Symbol{
		fooSymbol(),
		{Name: "User", Qualified: "pkg.User", Kind: model.KindClass, Location: model.Location{File: "a.go", StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}, Language: "go"},
	}}
	require.NoError(t, s.ReplaceFile("a.go", model.FileMetadata{Path: "a.go", Language: "go"}, result, time.Unix(1, 0)))

	// Foo differs from Usr in all three letters, so it is exactly at the
	// distance bound and is kept, after User.
	matches, err := s.FuzzySearch("Usr", 3, 5, "")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "User", matches[0].Symbol.Name)
	assert.Equal(t, 1, matches[0].Distance)

	exact, err := s.FuzzySearch("User", 3, 5, "")
	require.NoError(t, err)
	for _, m := range exact {
		assert.NotEqual(t, 0, m.Distance)
	}
}

func TestSignatureHashesTrackInterfaceChanges(t *testing.T) {
	s := openTestStore(t)

	first := &model.ParseResult{Symbols: []model.Symbol{fooSymbol()}}
	require.NoError(t, s.ReplaceFile("a.go", model.FileMetadata{Path: "a.go", Language: "go"}, first, time.Unix(1, 0)))

	before, err := s.SignatureHashesForFile("a.go")
	require.NoError(t, err)
	require.Equal(t, ComputeSignatureHash(fooSymbol()), before["pkg.Foo"])

	// A location-only change keeps the hash stable.
	moved := fooSymbol()
	moved.Location.StartLine = 30
	assert.Equal(t, ComputeSignatureHash(fooSymbol()), ComputeSignatureHash(moved))

	// A signature change does not.
	resigned := fooSymbol()
	resigned.Signature = "func Foo(x int)"
	second := &model.ParseResult{Symbols: []model.Symbol{resigned}}
	require.NoError(t, s.ReplaceFile("a.go", model.FileMetadata{Path: "a.go", Language: "go"}, second, time.Unix(2, 0)))

	after, err := s.SignatureHashesForFile("a.go")
	require.NoError(t, err)
	assert.NotEqual(t, before["pkg.Foo"], after["pkg.Foo"])
}

func TestIntegrity_FreshDatabasePasses(t *testing.T) {
	s := openTestStore(t)
	ok, err := s.Integrity()
	require.NoError(t, err)
	assert.True(t, ok)
}
