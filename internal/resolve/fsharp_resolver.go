package resolve

import (
	"strings"

	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".fs", ".fsx"}, ResolverFunc(resolveFSharp))
}

// resolveFSharp: (1) exact qualified match, subject to
// file-compilation-order visibility; (2) same-file
// symbols by short name or trailing dotted suffix; (3) for each open in
// the file, try "open.name"; (4) walk up the parent module path attempting
// "parent.name" at each level. Compilation order is checked at every step
// via CodeIndex.CanReference.
func resolveFSharp(idx *index.CodeIndex, name, fromFile string) (*model.ResolveResult, error) {
	if s, ok := idx.Get(name); ok && idx.CanReference(fromFile, s.Location.File) {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathQualified}, nil
	}

	if s, ok := sameFileShortNameMatch(idx, name, fromFile); ok {
		return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathSameModule}, nil
	}

	for _, open := range idx.OpensForFile(fromFile) {
		candidate := open + "." + name
		if s, ok := idx.Get(candidate); ok && idx.CanReference(fromFile, s.Location.File) {
			return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathViaOpen, Detail: open}, nil
		}
	}

	modulePath := moduleOfFile(idx, fromFile)
	if modulePath != "" {
		if s, parent, ok := walkUpParentModule(idx, name, modulePath, "."); ok {
			if idx.CanReference(fromFile, s.Location.File) {
				return &model.ResolveResult{Symbol: s, ResolutionPath: model.PathParentModule, Detail: parent}, nil
			}
		}
	}

	return nil, nil
}

// moduleOfFile returns the dotted module path common to the file's own
// top-level symbols, derived from the first symbol's Parent field.
func moduleOfFile(idx *index.CodeIndex, file string) string {
	for _, s := range idx.SymbolsInFile(file) {
		if s.Parent != "" {
			return s.Parent
		}
		if i := strings.LastIndex(s.Qualified, "."); i > 0 {
			return s.Qualified[:i]
		}
	}
	return ""
}
