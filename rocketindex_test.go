package rocketindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestEngineBuildThenFindDefinition(t *testing.T) {
	root := writeProject(t, map[string]string{
		"main.go": "package main\n\nfunc Greet() {}\n\nfunc main() {\n\tGreet()\n}\n",
	})

	e := New()
	ps, err := e.Build(context.Background(), root, false)
	require.NoError(t, err)

	def, err := e.FindDefinition(ps, "main.Greet", "")
	require.NoError(t, err)
	require.Len(t, def.Candidates, 1)

	refs, err := e.FindReferences(ps, "Greet", 0)
	require.NoError(t, err)
	require.NotEmpty(t, refs.ByFile)
}

func TestEngineRegisterReopensExistingIndex(t *testing.T) {
	root := writeProject(t, map[string]string{
		"main.go": "package main\n\nfunc Greet() {}\n",
	})

	first := New()
	_, err := first.Build(context.Background(), root, false)
	require.NoError(t, err)

	second := New()
	ps, err := second.Register(root)
	require.NoError(t, err)

	result, err := second.SearchSymbols(ps, "Greet", "", false, 10)
	require.NoError(t, err)
	require.NotEmpty(t, result.Matches)
}

func TestEngineProjectsTracksRegistered(t *testing.T) {
	root := writeProject(t, map[string]string{"main.go": "package main\n"})
	e := New()
	ps, err := e.Build(context.Background(), root, false)
	require.NoError(t, err)

	require.Len(t, e.Projects(), 1)

	found, ok := e.ForFile(filepath.Join(root, "main.go"))
	require.True(t, ok)
	require.Equal(t, ps.Root, found.Root)
}
