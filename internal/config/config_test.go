package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg, err := Load(fs, "/home/user/.config/rocketindex")
	require.NoError(t, err)
	require.Equal(t, DefaultAutoWatch, cfg.AutoWatch)
	require.Equal(t, DefaultDebounceMs, cfg.DebounceMs)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/home/user/.config/rocketindex"
	cfg := &Config{AutoWatch: false, DebounceMs: 500}
	cfg.AddProject("/code/one")
	require.NoError(t, Save(fs, dir, cfg))

	loaded, err := Load(fs, dir)
	require.NoError(t, err)
	require.Equal(t, []string{"/code/one"}, loaded.Projects)
	require.False(t, loaded.AutoWatch)
	require.Equal(t, 500, loaded.DebounceMs)
}

func TestAddProjectDeduplicates(t *testing.T) {
	cfg := &Config{}
	cfg.AddProject("/a")
	cfg.AddProject("/a")
	require.Len(t, cfg.Projects, 1)
}

func TestVersionCacheFreshness(t *testing.T) {
	now := time.Now()
	fresh := &VersionCache{LatestVersion: "1.2.0", CheckedAt: now.Add(-time.Hour).Unix()}
	stale := &VersionCache{LatestVersion: "1.2.0", CheckedAt: now.Add(-48 * time.Hour).Unix()}
	require.True(t, fresh.Fresh(now))
	require.False(t, stale.Fresh(now))
}

func TestCompareSemverPrerelease(t *testing.T) {
	require.Equal(t, -1, CompareSemver("0.1.0-beta.1", "0.1.0"))
	require.Equal(t, 1, CompareSemver("0.1.0", "0.1.0-beta.1"))
	require.Equal(t, 0, CompareSemver("1.2.3", "1.2.3"))
	require.Equal(t, -1, CompareSemver("1.2.3", "1.3.0"))
}
