package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestManagerBuildFreshAndRegister(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n\nfunc main() {}\n")
	writeFile(t, filepath.Join(root, "util.go"), "package main\n\nfunc helper() {}\n")

	m := NewManager()
	ps, err := m.BuildFresh(context.Background(), root, false)
	require.NoError(t, err)
	require.NotZero(t, ps.Mem.SymbolCount())

	n, err := ps.Store.CountSymbols()
	require.NoError(t, err)
	require.Equal(t, ps.Mem.SymbolCount(), n)

	m2 := NewManager()
	ps2, err := m2.Register(root)
	require.NoError(t, err)
	require.Equal(t, ps.Mem.SymbolCount(), ps2.Mem.SymbolCount())
}

func TestManagerRegisterMissingIndex(t *testing.T) {
	root := t.TempDir()
	m := NewManager()
	_, err := m.Register(root)
	require.ErrorIs(t, err, ErrIndexNotFound)
}

func TestManagerRebuildPicksUpChanges(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "a.go")
	writeFile(t, p, "package main\n\nfunc A() {}\n")

	m := NewManager()
	ps, err := m.BuildFresh(context.Background(), root, false)
	require.NoError(t, err)
	require.Equal(t, 1, ps.Mem.SymbolCount())

	writeFile(t, p, "package main\n\nfunc A() {}\nfunc B() {}\n")
	require.NoError(t, m.Rebuild(context.Background(), ps))
	require.Equal(t, 2, ps.Mem.SymbolCount())
}

func TestManagerForFileLongestPrefix(t *testing.T) {
	outer := t.TempDir()
	inner := filepath.Join(outer, "nested")
	writeFile(t, filepath.Join(outer, "x.go"), "package main\n")
	writeFile(t, filepath.Join(inner, "y.go"), "package main\n")

	m := NewManager()
	_, err := m.BuildFresh(context.Background(), outer, false)
	require.NoError(t, err)
	_, err = m.BuildFresh(context.Background(), inner, false)
	require.NoError(t, err)

	ps, ok := m.ForFile(filepath.Join(inner, "y.go"))
	require.True(t, ok)
	require.Equal(t, inner, ps.Root)
}

func TestAcquireWatchLockContention(t *testing.T) {
	root := t.TempDir()
	l1, err := AcquireWatchLock(root)
	require.NoError(t, err)
	defer l1.Release()

	_, err = AcquireWatchLock(root)
	require.ErrorIs(t, err, ErrLockContention)
}
