package extract

import (
	"strings"

	tssitter "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".ts"}, "typescript", ExtractorFunc(extractTypeScript))
}

var typescriptSpec = langSpec{
	language: "typescript",
	decls: map[string]declSpec{
		"function_declaration":   {symbolKind: model.KindFunction, nameField: "name"},
		"method_definition":      {symbolKind: model.KindFunction, nameField: "name"},
		"class_declaration":      {symbolKind: model.KindClass, nameField: "name", pushesScope: true},
		"interface_declaration":  {symbolKind: model.KindInterface, nameField: "name", pushesScope: true},
		"type_alias_declaration": {symbolKind: model.KindType, nameField: "name"},
		"enum_declaration":       {symbolKind: model.KindUnion, nameField: "name", pushesScope: true},
		"module":                 {symbolKind: model.KindModule, nameField: "name", pushesScope: true},
	},
	importTypes:     map[string]bool{"import_statement": true},
	identifierTypes: map[string]bool{"identifier": true, "property_identifier": true, "type_identifier": true},
	bindingParents:  map[string]bool{"required_parameter": true, "optional_parameter": true},
	importPathFn:    jsImportPaths,
	qualSep:         ".",
	docCommentType:  "comment",
	visibilityFn:    tsVisibility,
}

// tsVisibility honors the explicit "private"/"protected" modifiers TypeScript
// adds on top of JavaScript; anything else is public, matching the language's
// default export-everything stance.
func tsVisibility(declText string) model.Visibility {
	fields := strings.Fields(declText)
	for _, f := range fields {
		switch f {
		case "private":
			return model.Private
		case "protected":
			return model.Internal
		}
	}
	return model.Public
}

func extractTypeScript(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	res, err := parseWith(tssitter.GetLanguage(), typescriptSpec, path, source, maxDepth)
	if err != nil {
		return res, err
	}
	fixupJSModulePath(res, path)
	return res, nil
}
