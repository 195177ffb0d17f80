package resolve

import (
	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".rb"}, ResolverFunc(resolveRuby))
}

// resolveRuby: (1) exact (including "::" form); (2) for each enclosing
// module/class, try "Module::name". Top-level constants fall out of
// step 1 directly.
//
// require statements are recorded as opens but not honored here yet;
// resolving a required file's constants would need load-path handling
// this resolver doesn't attempt.
func resolveRuby(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error) {
	if s, ok := idx.Get(name); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathQualified}, nil
	}

	for _, enclosing := range idx.SymbolsInFile(fromFile) {
		if enclosing.Kind != model.KindClass && enclosing.Kind != model.KindModule {
			continue
		}
		if s, ok := idx.Get(enclosing.Qualified + "::" + name); ok {
			return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathSameModule}, nil
		}
	}

	return nil, nil
}
