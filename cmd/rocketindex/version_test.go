package main

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	rkconfig "github.com/rocketindex/rocketindex/internal/config"
)

func stubFetch(t *testing.T, fn func() (string, error)) {
	t.Helper()
	old := fetchLatest
	fetchLatest = fn
	t.Cleanup(func() { fetchLatest = old })
}

func TestCheckForUpdate_UsesFreshCache(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir, err := rkconfig.Dir()
	require.NoError(t, err)
	fs := afero.NewOsFs()
	require.NoError(t, rkconfig.SaveVersionCache(fs, dir, &rkconfig.VersionCache{
		LatestVersion: "9.9.9",
		CheckedAt:     time.Now().Unix(),
	}))

	stubFetch(t, func() (string, error) {
		t.Fatal("network fetch despite fresh cache")
		return "", nil
	})

	current, latest, ok := checkForUpdate()
	require.True(t, ok)
	require.Equal(t, currentVersion, current)
	require.Equal(t, "9.9.9", latest)
}

func TestCheckForUpdate_StaleCacheRefetchesAndSaves(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir, err := rkconfig.Dir()
	require.NoError(t, err)
	fs := afero.NewOsFs()
	require.NoError(t, rkconfig.SaveVersionCache(fs, dir, &rkconfig.VersionCache{
		LatestVersion: "9.9.9",
		CheckedAt:     time.Now().Add(-48 * time.Hour).Unix(),
	}))

	stubFetch(t, func() (string, error) { return "0.0.1", nil })

	_, _, ok := checkForUpdate()
	require.False(t, ok, "0.0.1 is not newer than the current version")

	saved := rkconfig.LoadVersionCache(fs, dir)
	require.NotNil(t, saved)
	require.Equal(t, "0.0.1", saved.LatestVersion)
}

func TestCheckForUpdate_NetworkFailureIsSilent(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	stubFetch(t, func() (string, error) { return "", errors.New("offline") })

	_, _, ok := checkForUpdate()
	require.False(t, ok)
}

func TestCheckForUpdate_PrereleaseBelowRelease(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	stubFetch(t, func() (string, error) { return currentVersion + "-beta.3", nil })

	_, _, ok := checkForUpdate()
	require.False(t, ok, "a prerelease of the current version is not an update")
}
