package extract

import (
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".js", ".jsx", ".mjs", ".cjs"}, "javascript", ExtractorFunc(extractJavaScript))
}

var javascriptSpec = langSpec{
	language: "javascript",
	decls: map[string]declSpec{
		"function_declaration": {symbolKind: model.KindFunction, nameField: "name"},
		"method_definition":    {symbolKind: model.KindFunction, nameField: "name"},
		"class_declaration":    {symbolKind: model.KindClass, nameField: "name", pushesScope: true},
	},
	importTypes:     map[string]bool{"import_statement": true},
	identifierTypes: map[string]bool{"identifier": true, "property_identifier": true},
	bindingParents:  map[string]bool{"formal_parameters": true},
	importPathFn:    jsImportPaths,
	qualSep:         ".",
	docCommentType:  "comment",
	visibilityFn:    nil, // JavaScript has no access-modifier syntax of its own
}

func extractJavaScript(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	res, err := parseWith(javascript.GetLanguage(), javascriptSpec, path, source, maxDepth)
	if err != nil {
		return res, err
	}
	fixupJSModulePath(res, path)
	return res, nil
}
