package config

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// VersionCacheTTL is how long a cached latest-version lookup stays valid.
const VersionCacheTTL = 24 * time.Hour

// VersionCache mirrors version_cache.json's shape.
type VersionCache struct {
	LatestVersion string `json:"latest_version"`
	CheckedAt     int64  `json:"checked_at"`
}

// Fresh reports whether the cache entry is still within VersionCacheTTL of
// now.
func (v *VersionCache) Fresh(now time.Time) bool {
	if v == nil {
		return false
	}
	return now.Sub(time.Unix(v.CheckedAt, 0)) < VersionCacheTTL
}

func versionCachePath(dir string) string {
	return filepath.Join(dir, "version_cache.json")
}

// LoadVersionCache reads version_cache.json from fs, returning nil if
// absent or unparsable rather than erroring — a stale/missing cache simply
// triggers a fresh version check.
func LoadVersionCache(fs afero.Fs, dir string) *VersionCache {
	data, err := afero.ReadFile(fs, versionCachePath(dir))
	if err != nil {
		return nil
	}
	var v VersionCache
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return &v
}

// SaveVersionCache writes v to <dir>/version_cache.json.
func SaveVersionCache(fs afero.Fs, dir string, v *VersionCache) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, versionCachePath(dir), data, 0o644)
}
