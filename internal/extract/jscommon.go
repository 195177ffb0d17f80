package extract

import (
	"path/filepath"
	"strings"

	"github.com/rocketindex/rocketindex/internal/model"
)

// jsImportPaths extracts the module specifier from an import statement.
// Relative specifiers are resolved against the importing file's directory
// and stripped of their extension, so they line up with the
// extensionless-path qualification fixupJSModulePath gives symbols; bare
// package specifiers pass through untouched.
func jsImportPaths(filePath, text string) []string {
	spec := quotedPortion(text)
	if spec == "" {
		return nil
	}
	if strings.HasPrefix(spec, ".") {
		resolved := filepath.ToSlash(filepath.Join(filepath.Dir(filePath), spec))
		return []string{trimJSExt(resolved)}
	}
	return []string{spec}
}

func trimJSExt(p string) string {
	switch filepath.Ext(p) {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx":
		return strings.TrimSuffix(p, filepath.Ext(p))
	}
	return p
}

// fixupJSModulePath sets ModulePath to the file's own extensionless path
// (ES modules are addressed by file path, not by a declared namespace) and
// prefixes every top-level symbol's Qualified/Parent with it. Nested
// classes/interfaces already carry their own qualifier from the walk.
func fixupJSModulePath(res *model.ParseResult, path string) {
	mod := strings.TrimSuffix(filepath.ToSlash(path), filepath.Ext(path))
	res.ModulePath = mod
	for i := range res.Symbols {
		s := &res.Symbols[i]
		if s.Parent == "" {
			s.Parent = mod
		} else {
			s.Parent = mod + "." + s.Parent
		}
		s.Qualified = mod + "." + s.Qualified
	}
}
