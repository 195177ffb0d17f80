package extract

import (
	"strings"

	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".cc", ".cpp", ".cxx", ".hpp", ".hh"}, "cpp", ExtractorFunc(extractCpp))
}

var cppSpec = langSpec{
	language: "cpp",
	decls: map[string]declSpec{
		"function_definition":  {symbolKind: model.KindFunction, nameField: "declarator"},
		"class_specifier":      {symbolKind: model.KindClass, nameField: "name", pushesScope: true},
		"struct_specifier":     {symbolKind: model.KindRecord, nameField: "name", pushesScope: true},
		"enum_specifier":       {symbolKind: model.KindUnion, nameField: "name", pushesScope: true},
		"namespace_definition": {symbolKind: model.KindModule, nameField: "name", pushesScope: true},
	},
	importTypes:     map[string]bool{"preproc_include": true, "using_declaration": true},
	identifierTypes: map[string]bool{"identifier": true, "field_identifier": true},
	bindingParents:  map[string]bool{"parameter_declaration": true},
	importPathFn:    cppImportPaths,
	qualSep:         ".",
	docCommentType:  "comment",
	visibilityFn:    cVisibility, // same "static" heuristic; access_specifier blocks aren't individually field-scoped by this grammar
}

// cppImportPaths flattens "using std::vector;" style paths with "." to
// match cppSpec's qualified-name separator; #include lines reduce to the
// bare header name.
func cppImportPaths(_, text string) []string {
	return []string{strings.ReplaceAll(cleanImportText(text), "::", ".")}
}

func extractCpp(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	return parseWith(cpp.GetLanguage(), cppSpec, path, source, maxDepth)
}
