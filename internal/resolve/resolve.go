// Package resolve implements per-language name resolution. Each
// language's resolver translates (name, from_file) into a concrete symbol
// by trying a fixed, language-specific sequence of strategies over the
// in-memory CodeIndex (internal/index), stopping at the first match and
// reporting which strategy matched as the ResolutionPath.
package resolve

import (
	"path/filepath"
	"strings"

	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/model"
)

// Resolver is the contract every language module implements.
type Resolver interface {
	Resolve(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error)

func (f ResolverFunc) Resolve(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error) {
	return f(idx, name, fromFile)
}

// registry is the static extension -> Resolver dispatch table, populated by
// each language file's init, mirroring internal/extract's registry shape.
var registry = map[string]Resolver{}

func register(exts []string, r Resolver) {
	for _, e := range exts {
		registry[e] = r
	}
}

// Resolve dispatches by the lowercased extension of fromFile. An
// unsupported extension returns (nil, nil), not an error.
func Resolve(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error) {
	ext := strings.ToLower(filepath.Ext(fromFile))
	r, ok := registry[ext]
	if !ok {
		return nil, nil
	}
	return r.Resolve(idx, name, fromFile)
}

// ResolveDotted handles names containing separators by first trying a
// whole-name resolution, then, on failure, splitting on the last
// separator and recursing on the prefix to handle chained access.
func ResolveDotted(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error) {
	if res, err := Resolve(idx, name, fromFile); err != nil || res != nil {
		return res, err
	}
	sep := lastSeparator(name)
	if sep < 0 {
		return nil, nil
	}
	prefix := name[:sep]
	return Resolve(idx, prefix, fromFile)
}

// lastSeparator returns the index of the last '.', '::', or '\' separator
// in name, or -1 if none is present.
func lastSeparator(name string) int {
	best := -1
	for _, sep := range []string{".", "::", "\\"} {
		if i := strings.LastIndex(name, sep); i > best {
			best = i
		}
	}
	return best
}

// sameFileShortNameMatch finds a symbol defined in fromFile whose short
// Name equals name, or whose Qualified ends in "."+name (a trailing dotted
// suffix match) — used by several resolvers' "same file" strategy.
func sameFileShortNameMatch(idx *index.CodeIndex, name, fromFile string) (model.Symbol, bool) {
	for _, s := range idx.SymbolsInFile(fromFile) {
		if s.Name == name {
			return s, true
		}
		if strings.HasSuffix(s.Qualified, "."+name) {
			return s, true
		}
	}
	return model.Symbol{}, false
}

// viaOpens tries name prefixed by each import path the file brings into
// scope: "open.name". Opens are tried in sorted (deterministic) order.
func viaOpens(idx *index.CodeIndex, name, fromFile, sep string) (model.Symbol, string, bool) {
	for _, open := range idx.OpensForFile(fromFile) {
		candidate := open + sep + name
		if s, ok := idx.Get(candidate); ok {
			return s, open, true
		}
		// Also try matching on the import's trailing path component, so
		// e.g. `gin.Router` resolves under import
		// "github.com/gin-gonic/gin".
		if last := lastPathComponent(open); last != "" {
			candidate = last + sep + name
			if s, ok := idx.Get(candidate); ok {
				return s, open, true
			}
			if rest, ok := strings.CutPrefix(name, last+sep); ok {
				if s, ok := idx.Get(open + sep + rest); ok {
					return s, open, true
				}
			}
		}
	}
	return model.Symbol{}, "", false
}

func lastPathComponent(path string) string {
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndexAny(path, "/."); i >= 0 {
		return path[i+1:]
	}
	return path
}

// walkUpParentModule tries "parent.name" at each level of modulePath's
// dotted hierarchy, from most to least specific.
func walkUpParentModule(idx *index.CodeIndex, name, modulePath, sep string) (model.Symbol, string, bool) {
	segments := strings.Split(modulePath, sep)
	for len(segments) > 0 {
		candidate := strings.Join(segments, sep) + sep + name
		if s, ok := idx.Get(candidate); ok {
			return s, strings.Join(segments, sep), true
		}
		segments = segments[:len(segments)-1]
	}
	return model.Symbol{}, "", false
}
