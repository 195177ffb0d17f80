package resolve

import (
	"strings"

	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".py"}, ResolverFunc(resolvePython))
}

// resolvePython: (1) exact;
// (2) for each enclosing Class/Module symbol in the current file, try
// parent.name; (3) for each import, try import.name; (4) if dotted, split
// on '.' and recurse on the prefix.
func resolvePython(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error) {
	if s, ok := idx.Get(name); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathQualified}, nil
	}

	for _, enclosing := range idx.SymbolsInFile(fromFile) {
		if enclosing.Kind != model.KindClass && enclosing.Kind != model.KindModule {
			continue
		}
		if s, ok := idx.Get(enclosing.Qualified + "." + name); ok {
			return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathSameModule}, nil
		}
	}

	for _, open := range idx.OpensForFile(fromFile) {
		if s, ok := idx.Get(open + "." + name); ok {
			return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathViaOpen, Detail: open}, nil
		}
	}

	if i := strings.LastIndex(name, "."); i > 0 {
		return resolvePython(idx, name[:i], fromFile)
	}

	return nil, nil
}
