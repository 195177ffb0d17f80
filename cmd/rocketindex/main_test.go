package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindRepoRoot_DirectGitDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := findRepoRoot(root)
	assert.Equal(t, root, got)
}

func TestFindRepoRoot_NestedSubdirectory(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "sub", "deep")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	got := findRepoRoot(deep)
	assert.Equal(t, root, got)
}

func TestFindRepoRoot_NoGitAncestor(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	got := findRepoRoot(dir)
	assert.Equal(t, dir, got)
}

func TestResolveDBPath_DefaultsUnderRoot(t *testing.T) {
	old := flagDB
	flagDB = ""
	defer func() { flagDB = old }()

	got := resolveDBPath("/repo")
	assert.Equal(t, filepath.Join("/repo", ".rocketindex", "index.db"), got)
}

func TestResolveDBPath_RelativeFlagJoinsRoot(t *testing.T) {
	old := flagDB
	flagDB = "custom.db"
	defer func() { flagDB = old }()

	got := resolveDBPath("/repo")
	assert.Equal(t, filepath.Join("/repo", "custom.db"), got)
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat("json"))
	assert.NoError(t, validateFormat("text"))
	assert.Error(t, validateFormat("yaml"))
}
