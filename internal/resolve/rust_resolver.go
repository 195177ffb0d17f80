package resolve

import (
	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".rs"}, ResolverFunc(resolveRust))
}

// resolveRust follows the same shape as the Java/C#/Kotlin group
// (exact, same file, via imports, parent module), joining with "." —
// impl-block items are stored as Type.method for cross-language
// uniformity, matching internal/extract's rustSpec.qualSep.
func resolveRust(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error) {
	if s, ok := idx.Get(name); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathQualified}, nil
	}

	if s, ok := sameFileShortNameMatch(idx, name, fromFile); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathSameModule}, nil
	}

	if s, open, ok := viaOpens(idx, name, fromFile, "."); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathViaOpen, Detail: open}, nil
	}

	modulePath := moduleOfFile(idx, fromFile)
	if modulePath != "" {
		if s, parent, ok := walkUpParentModule(idx, name, modulePath, "."); ok {
			return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathParentModule, Detail: parent}, nil
		}
	}

	return nil, nil
}
