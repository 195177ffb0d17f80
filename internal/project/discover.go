package project

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rocketindex/rocketindex/internal/extract"
)

// defaultIgnoreGlobs skip version control metadata and build output
// directories during discovery. Paths are matched relative to the
// workspace root.
var defaultIgnoreGlobs = []string{
	".git/**", ".rocketindex/**", "node_modules/**", "vendor/**",
	"dist/**", "build/**", "target/**", "bin/**", "obj/**",
	"**/.git/**", "**/node_modules/**", "**/vendor/**", "**/dist/**",
	"**/build/**", "**/target/**", "**/bin/**", "**/obj/**",
}

// DiscoverFiles walks root, preferring `git ls-files` (tracked +
// untracked but not ignored) and falling back to a filesystem walk when
// the root isn't a git repository or the command fails. The result is
// filtered to
// extensions internal/extract recognizes and to files not matched by
// defaultIgnoreGlobs, then sorted for deterministic build order.
func DiscoverFiles(root string) ([]string, error) {
	paths, err := gitLsFiles(root)
	if err != nil || len(paths) == 0 {
		paths, err = walkFiles(root)
		if err != nil {
			return nil, err
		}
	}

	var out []string
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = p
		}
		rel = filepath.ToSlash(rel)
		if isIgnored(rel) {
			continue
		}
		if _, ok := extract.LanguageForFile(p); !ok {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func isIgnored(relPath string) bool {
	for _, glob := range defaultIgnoreGlobs {
		if ok, _ := doublestar.Match(glob, relPath); ok {
			return true
		}
	}
	return false
}

func gitLsFiles(root string) ([]string, error) {
	cmd := exec.Command("git", "ls-files", "-z", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, p := range strings.Split(string(out), "\x00") {
		if p == "" {
			continue
		}
		paths = append(paths, filepath.Join(root, p))
	}
	return paths, nil
}

func walkFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	return paths, err
}
