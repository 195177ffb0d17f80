package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	rkconfig "github.com/rocketindex/rocketindex/internal/config"
)

// currentVersion is stamped at release time.
const currentVersion = "0.1.0"

// releasesURL lists the newest published release, prereleases included.
const releasesURL = "https://api.github.com/repos/rocketindex/rocketindex/releases?per_page=1"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and check for updates",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("rocketindex v%s\n", currentVersion)
		if current, latest, ok := checkForUpdate(); ok {
			fmt.Printf("A newer version is available: v%s (current: v%s)\n", latest, current)
		}
		return nil
	},
}

// fetchLatest queries the releases API for the newest published version
// tag, stripped of its "v" prefix. Swapped out in tests.
var fetchLatest = func() (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest(http.MethodGet, releasesURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "rocketindex-cli")
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("releases API returned %s", resp.Status)
	}
	var releases []struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return "", err
	}
	if len(releases) == 0 {
		return "", fmt.Errorf("no releases found")
	}
	return strings.TrimPrefix(releases[0].TagName, "v"), nil
}

// checkForUpdate reports whether a release newer than currentVersion
// exists. A successful fetch is cached in version_cache.json for its TTL;
// a network failure is swallowed — the update check must never block or
// fail a command.
func checkForUpdate() (current, latest string, ok bool) {
	dir, err := rkconfig.Dir()
	if err != nil {
		return "", "", false
	}
	fs := afero.NewOsFs()

	if cache := rkconfig.LoadVersionCache(fs, dir); cache.Fresh(time.Now()) {
		latest = cache.LatestVersion
	} else {
		fetched, err := fetchLatest()
		if err != nil {
			return "", "", false
		}
		latest = fetched
		_ = rkconfig.SaveVersionCache(fs, dir, &rkconfig.VersionCache{
			LatestVersion: fetched,
			CheckedAt:     time.Now().Unix(),
		})
	}

	if rkconfig.CompareSemver(latest, currentVersion) > 0 {
		return currentVersion, latest, true
	}
	return "", "", false
}

// printUpdateNotification writes a one-line upgrade hint to stderr when a
// newer release exists. stderr, because stdout carries query results.
func printUpdateNotification() {
	if current, latest, ok := checkForUpdate(); ok {
		fmt.Fprintf(os.Stderr, "rocketindex v%s available (current: v%s)\n", latest, current)
	}
}
