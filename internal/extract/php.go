package extract

import (
	"strings"

	phpsitter "github.com/smacker/go-tree-sitter/php"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".php"}, "php", ExtractorFunc(extractPHP))
}

var phpSpec = langSpec{
	language: "php",
	decls: map[string]declSpec{
		"function_definition":  {symbolKind: model.KindFunction, nameField: "name"},
		"method_declaration":   {symbolKind: model.KindFunction, nameField: "name"},
		"class_declaration":    {symbolKind: model.KindClass, nameField: "name", pushesScope: true},
		"interface_declaration": {symbolKind: model.KindInterface, nameField: "name", pushesScope: true},
		"trait_declaration":    {symbolKind: model.KindClass, nameField: "name", pushesScope: true},
		"namespace_definition": {symbolKind: model.KindModule, nameField: "name", pushesScope: true},
	},
	importTypes:     map[string]bool{"namespace_use_declaration": true},
	identifierTypes: map[string]bool{"name": true, "variable_name": true},
	bindingParents:  map[string]bool{"formal_parameters": true},
	qualSep:         "\\",
	docCommentType:  "comment",
	visibilityFn:    phpVisibility,
}

func phpVisibility(declText string) model.Visibility {
	fields := strings.Fields(declText)
	for _, f := range fields {
		switch f {
		case "private":
			return model.Private
		case "protected":
			return model.Internal
		case "public":
			return model.Public
		}
	}
	return model.Public
}

func extractPHP(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	return parseWith(phpsitter.GetLanguage(), phpSpec, path, source, maxDepth)
}
