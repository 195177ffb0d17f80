package extract

import (
	"strings"

	"github.com/smacker/go-tree-sitter/rust"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".rs"}, "rust", ExtractorFunc(extractRust))
}

var rustSpec = langSpec{
	language: "rust",
	decls: map[string]declSpec{
		"function_item":   {symbolKind: model.KindFunction, nameField: "name"},
		"struct_item":     {symbolKind: model.KindRecord, nameField: "name", pushesScope: true},
		"enum_item":       {symbolKind: model.KindUnion, nameField: "name", pushesScope: true},
		"trait_item":      {symbolKind: model.KindInterface, nameField: "name", pushesScope: true},
		"impl_item":       {symbolKind: model.KindType, nameField: "type", pushesScope: true},
		"mod_item":        {symbolKind: model.KindModule, nameField: "name", pushesScope: true},
		"const_item":      {symbolKind: model.KindValue, nameField: "name"},
		"static_item":     {symbolKind: model.KindValue, nameField: "name"},
	},
	importTypes:     map[string]bool{"use_declaration": true},
	identifierTypes: map[string]bool{"identifier": true, "field_identifier": true, "type_identifier": true},
	bindingParents:  map[string]bool{"parameters": true},
	importPathFn:    rustImportPaths,
	qualSep:         ".",
	docCommentType:  "line_comment",
	visibilityFn:    rustVisibility,
}

// rustVisibility looks for a leading "pub" keyword; anything else is
// private to its defining module, matching Rust's default.
func rustVisibility(declText string) model.Visibility {
	trimmed := strings.TrimSpace(declText)
	if strings.HasPrefix(trimmed, "pub(crate)") {
		return model.Internal
	}
	if strings.HasPrefix(trimmed, "pub") {
		return model.Public
	}
	return model.Private
}

// rustImportPaths turns "use a::b::c;" into [a.b.c, a.b] — "::" becomes
// "." to match how rustSpec stores qualified names, a "{...}" group or
// "as" alias is cut at the prefix, and the parent path is emitted too so
// a bare use of the final segment resolves via its module.
func rustImportPaths(_, text string) []string {
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	text = strings.TrimPrefix(text, "pub ")
	text = strings.TrimPrefix(text, "use ")
	if i := strings.Index(text, " as "); i >= 0 {
		text = text[:i]
	}
	if i := strings.IndexByte(text, '{'); i >= 0 {
		text = strings.TrimSuffix(strings.TrimSpace(text[:i]), "::")
	}
	path := strings.ReplaceAll(strings.TrimSpace(text), "::", ".")
	if path == "" {
		return nil
	}
	out := []string{path}
	if i := strings.LastIndexByte(path, '.'); i > 0 {
		out = append(out, path[:i])
	}
	return out
}

func extractRust(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	return parseWith(rust.GetLanguage(), rustSpec, path, source, maxDepth)
}
