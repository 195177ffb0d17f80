package query

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rocketindex/rocketindex/internal/project"
)

func setupProject(t *testing.T, files map[string]string) *project.ProjectState {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	m := project.NewManager()
	ps, err := m.BuildFresh(context.Background(), root, false)
	require.NoError(t, err)
	return ps
}

func TestFindDefinitionExactMatch(t *testing.T) {
	ps := setupProject(t, map[string]string{
		"main.go": "package main\n\nfunc Greet() {}\n",
	})
	result, err := FindDefinition(ps, "main.Greet", "")
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	require.Equal(t, "Greet", result.Candidates[0].Symbol.Name)
}

func TestFindDefinitionFuzzyFallback(t *testing.T) {
	ps := setupProject(t, map[string]string{
		"main.go": "package main\n\nfunc User() {}\n",
	})
	result, err := FindDefinition(ps, "Usr", "")
	require.NoError(t, err)
	require.NotEmpty(t, result.Candidates)
	require.True(t, result.Candidates[0].Fuzzy)
	require.Greater(t, result.Candidates[0].Confidence, 0.0)
}

func TestFindDefinitionStaleWarning(t *testing.T) {
	ps := setupProject(t, map[string]string{
		"main.go": "package main\n\nfunc Greet() {}\n",
	})
	// Touch the source so its mtime lands after the index's last_parsed_at.
	src := filepath.Join(ps.Root, "main.go")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(src, future, future))

	result, err := FindDefinition(ps, "main.Greet", "")
	require.NoError(t, err)
	require.Equal(t, "Warning: Index may be stale", result.Warning)
}

func TestFindReferencesGroupsByFile(t *testing.T) {
	ps := setupProject(t, map[string]string{
		"main.go": "package main\n\nfunc Greet() {}\n\nfunc main() {\n\tGreet()\n}\n",
	})
	result, err := FindReferences(ps, "Greet", 0)
	require.NoError(t, err)
	require.NotEmpty(t, result.ByFile)
}

func TestSearchSymbolsExactFirst(t *testing.T) {
	ps := setupProject(t, map[string]string{
		"main.go": "package main\n\nfunc Use() {}\nfunc User() {}\n",
	})
	result, err := SearchSymbols(ps, "Use", "", false, 10)
	require.NoError(t, err)
	require.NotEmpty(t, result.Matches)
	require.Equal(t, "Use", result.Matches[0].Symbol.Name)
}

func TestDescribeProjectSummaryMarkdown(t *testing.T) {
	ps := setupProject(t, map[string]string{
		"main.go": "package main\n\ntype User struct {}\n",
	})
	m, err := DescribeProject(ps, DetailSummary)
	require.NoError(t, err)
	md := FormatProjectMapMarkdown(m)
	require.Contains(t, md, "# Project Map")
	require.Contains(t, md, "User")
}

func TestEnrichSymbolIncludesSnippet(t *testing.T) {
	ps := setupProject(t, map[string]string{
		"main.go": "package main\n\nfunc Greet() {\n\treturn\n}\n",
	})
	enriched, err := EnrichSymbol(ps, "main.Greet")
	require.NoError(t, err)
	require.NotEmpty(t, enriched.Snippet)
}
