package extract

import (
	"github.com/smacker/go-tree-sitter/c"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".c", ".h"}, "c", ExtractorFunc(extractC))
}

var cSpec = langSpec{
	language: "c",
	decls: map[string]declSpec{
		"function_definition": {symbolKind: model.KindFunction, nameField: "declarator"},
		"struct_specifier":    {symbolKind: model.KindRecord, nameField: "name", pushesScope: true},
		"enum_specifier":      {symbolKind: model.KindUnion, nameField: "name", pushesScope: true},
		"type_definition":     {symbolKind: model.KindType, nameField: "type"},
	},
	importTypes:     map[string]bool{"preproc_include": true},
	identifierTypes: map[string]bool{"identifier": true, "field_identifier": true},
	bindingParents:  map[string]bool{"parameter_declaration": true},
	qualSep:         ".",
	docCommentType:  "comment",
	// C has no visibility keywords of its own; "static" at file scope is the
	// closest analogue to internal linkage, everything else is external.
	visibilityFn: cVisibility,
}

func cVisibility(declText string) model.Visibility {
	if len(declText) >= 6 && declText[:6] == "static" {
		return model.Internal
	}
	return model.Public
}

func extractC(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	return parseWith(c.GetLanguage(), cSpec, path, source, maxDepth)
}
