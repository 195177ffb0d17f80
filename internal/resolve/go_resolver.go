package resolve

import (
	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".go"}, ResolverFunc(resolveGo))
}

// resolveGo: (1) exact; (2) via type
// or package declared in the same file; (3) via imports, matching the
// import's trailing path component (gin.Router under
// "github.com/gin-gonic/gin"); (4) same-package lookup using the file's
// package declaration.
func resolveGo(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error) {
	if s, ok := idx.Get(name); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathQualified}, nil
	}

	if s, ok := sameFileShortNameMatch(idx, name, fromFile); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathSameModule}, nil
	}

	if s, open, ok := viaOpens(idx, name, fromFile, "."); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathViaOpen, Detail: open}, nil
	}

	if pkg := packageOfFile(idx, fromFile); pkg != "" {
		candidate := pkg + "." + name
		if s, ok := idx.Get(candidate); ok {
			return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathParentModule, Detail: pkg}, nil
		}
	}

	return nil, nil
}

// packageOfFile derives the Go package name a file belongs to from the
// shared "pkg." prefix of its own symbols (fixupGo in internal/extract
// always qualifies as package.Name or package.Type.Method).
func packageOfFile(idx *index.CodeIndex, file string) string {
	for _, s := range idx.SymbolsInFile(file) {
		if dot := firstDot(s.Qualified); dot > 0 {
			return s.Qualified[:dot]
		}
	}
	return ""
}

func firstDot(s string) int {
	for i, r := range s {
		if r == '.' {
			return i
		}
	}
	return -1
}
