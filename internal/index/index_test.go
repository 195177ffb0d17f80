package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketindex/rocketindex/internal/model"
)

func sym(qualified, file string, line int) model.Symbol {
	return model.Symbol{
		Name:      qualified,
		Qualified: qualified,
		Kind:      model.KindFunction,
		Location:  model.Location{File: file, StartLine: line, StartCol: 1, EndLine: line, EndCol: 10},
		Language:  "go",
	}
}

func TestAddSymbol_IndexedByQualifiedAndFile(t *testing.T) {
	idx := New("/ws")
	idx.AddSymbol(sym("pkg.Foo", "a.go", 1))
	idx.AddSymbol(sym("pkg.Bar", "a.go", 5))

	got, ok := idx.Get("pkg.Foo")
	require.True(t, ok)
	assert.Equal(t, "pkg.Foo", got.Qualified)

	inFile := idx.SymbolsInFile("a.go")
	require.Len(t, inFile, 2)
	assert.Equal(t, "pkg.Foo", inFile[0].Qualified)
	assert.Equal(t, "pkg.Bar", inFile[1].Qualified)

	assert.Equal(t, 2, idx.SymbolCount())
}

func TestRemoveFile_DropsSymbolsReferencesAndOpens(t *testing.T) {
	idx := New("/ws")
	idx.AddSymbol(sym("pkg.Foo", "a.go", 1))
	idx.AddReference("a.go", model.Reference{Name: "Bar", Location: model.Location{File: "a.go", StartLine: 2, StartCol: 1, EndLine: 2, EndCol: 4}})
	idx.AddOpen("a.go", "pkg/other")

	idx.RemoveFile("a.go")

	_, ok := idx.Get("pkg.Foo")
	assert.False(t, ok)
	assert.Empty(t, idx.SymbolsInFile("a.go"))
	assert.Empty(t, idx.ReferencesInFile("a.go"))
	assert.Empty(t, idx.OpensForFile("a.go"))
	assert.Equal(t, 0, idx.SymbolCount())
}

func TestRemoveFile_DoesNotClobberNewerSymbolWithSameQualified(t *testing.T) {
	idx := New("/ws")
	idx.AddSymbol(sym("pkg.Foo", "a.go", 1))
	// Re-parse of a.go under a different path replaced the qualified entry.
	idx.AddSymbol(sym("pkg.Foo", "b.go", 1))

	idx.RemoveFile("a.go")

	got, ok := idx.Get("pkg.Foo")
	require.True(t, ok)
	assert.Equal(t, "b.go", got.Location.File)
}

func TestGetAllSymbolsOrdered_ByFileThenLine(t *testing.T) {
	idx := New("/ws")
	idx.AddSymbol(sym("pkg.C", "b.go", 10))
	idx.AddSymbol(sym("pkg.A", "a.go", 5))
	idx.AddSymbol(sym("pkg.B", "a.go", 1))

	ordered := idx.GetAllSymbolsOrdered()
	require.Len(t, ordered, 3)
	assert.Equal(t, "pkg.B", ordered[0].Qualified)
	assert.Equal(t, "pkg.A", ordered[1].Qualified)
	assert.Equal(t, "pkg.C", ordered[2].Qualified)
}

func TestCanReference_NoCompilationOrderAlwaysTrue(t *testing.T) {
	idx := New("/ws")
	assert.True(t, idx.CanReference("b.fs", "a.fs"))
}

func TestCanReference_FSharpCompilationOrder(t *testing.T) {
	idx := New("/ws")
	idx.SetCompilationOrder([]string{"a.fs", "b.fs", "c.fs"})

	assert.True(t, idx.CanReference("b.fs", "a.fs"), "later file may reference earlier file")
	assert.False(t, idx.CanReference("a.fs", "b.fs"), "earlier file may not reference later file")
	assert.True(t, idx.CanReference("b.fs", "b.fs"), "same file always visible to itself")
}
