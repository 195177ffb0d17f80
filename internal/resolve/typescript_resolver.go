package resolve

import (
	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	r := ResolverFunc(resolveTypeScript)
	register([]string{".ts", ".js", ".jsx", ".mjs", ".cjs"}, r)
}

// resolveTypeScript: (1) exact; (2) same-file class/interface/module
// scope; (3) via imports; (4) same-file short-name match.
func resolveTypeScript(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error) {
	if s, ok := idx.Get(name); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathQualified}, nil
	}

	for _, enclosing := range idx.SymbolsInFile(fromFile) {
		if enclosing.Kind != model.KindClass && enclosing.Kind != model.KindInterface && enclosing.Kind != model.KindModule {
			continue
		}
		if s, ok := idx.Get(enclosing.Qualified + "." + name); ok {
			return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathSameModule}, nil
		}
	}

	if s, open, ok := viaOpens(idx, name, fromFile, "."); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathViaOpen, Detail: open}, nil
	}

	if s, ok := sameFileShortNameMatch(idx, name, fromFile); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathSameModule}, nil
	}

	return nil, nil
}
