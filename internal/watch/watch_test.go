package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFSNotifyNotifierDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(file, []byte("package a\n"), 0o644))

	n, err := NewFSNotifyNotifier(Options{Root: dir, DebounceMs: 20})
	require.NoError(t, err)
	defer n.Close()

	changes, err := n.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(file, []byte("package a\n\nfunc F() {}\n"), 0o644))

	select {
	case batch := <-changes:
		require.NotEmpty(t, batch)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestFSNotifyNotifierIgnoresGlob(t *testing.T) {
	dir := t.TempDir()
	ignored := filepath.Join(dir, "vendor")
	require.NoError(t, os.MkdirAll(ignored, 0o755))

	n, err := NewFSNotifyNotifier(Options{Root: dir, IgnoreGlobs: []string{"vendor/**"}, DebounceMs: 20})
	require.NoError(t, err)
	defer n.Close()

	require.True(t, n.ignored(filepath.Join(dir, "vendor", "x.go")))
	require.False(t, n.ignored(filepath.Join(dir, "main.go")))
}
