package resolve

import (
	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	r := ResolverFunc(resolveStructural)
	register([]string{".c", ".h", ".cpp", ".cc", ".cxx", ".hpp", ".hh", ".m", ".mm"}, r)
}

// resolveStructural: C/C++/Objective-C resolution collapses to the
// structural edges that matter for call/reference graphs — parent,
// implements, and #include/using links. Exact qualified match and a
// same-file fallback are as far as name resolution goes; the graph
// walker (internal/graph) leans on Symbol.Parent/Implements directly
// for the rest.
func resolveStructural(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error) {
	if s, ok := idx.Get(name); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathQualified}, nil
	}
	if s, ok := sameFileShortNameMatch(idx, name, fromFile); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathSameModule}, nil
	}
	for _, open := range idx.OpensForFile(fromFile) {
		if s, ok := idx.Get(open + "." + name); ok {
			return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathViaOpen, Detail: open}, nil
		}
	}
	return nil, nil
}
