package extract

import (
	"strings"

	"github.com/smacker/go-tree-sitter/kotlin"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".kt", ".kts"}, "kotlin", ExtractorFunc(extractKotlin))
}

var kotlinSpec = langSpec{
	language: "kotlin",
	decls: map[string]declSpec{
		"function_declaration": {symbolKind: model.KindFunction, nameField: "name"},
		"class_declaration":    {symbolKind: model.KindClass, nameField: "name", pushesScope: true},
		"object_declaration":   {symbolKind: model.KindClass, nameField: "name", pushesScope: true},
		"property_declaration": {symbolKind: model.KindValue, nameField: ""},
	},
	importTypes:     map[string]bool{"import_header": true},
	identifierTypes: map[string]bool{"simple_identifier": true},
	bindingParents:  map[string]bool{"function_value_parameters": true},
	qualSep:         ".",
	docCommentType:  "comment",
	visibilityFn:    kotlinVisibility,
}

// kotlinVisibility: Kotlin's default is public, unlike Java's package-private
// default, so the absence of an explicit modifier resolves differently here.
func kotlinVisibility(declText string) model.Visibility {
	fields := strings.Fields(declText)
	for _, f := range fields {
		switch f {
		case "private":
			return model.Private
		case "internal":
			return model.Internal
		case "protected":
			return model.Internal
		case "public":
			return model.Public
		}
	}
	return model.Public
}

func extractKotlin(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	res, err := parseWith(kotlin.GetLanguage(), kotlinSpec, path, source, maxDepth)
	if err != nil {
		return res, err
	}
	if idx := strings.Index(string(source), "package "); idx >= 0 {
		rest := string(source)[idx+len("package "):]
		fields := strings.FieldsFunc(rest, func(r rune) bool { return r == '\n' || r == ';' })
		if len(fields) > 0 {
			pkg := strings.TrimSpace(fields[0])
			res.ModulePath = pkg
			for i := range res.Symbols {
				s := &res.Symbols[i]
				if s.Parent == "" {
					s.Parent = pkg
				} else {
					s.Parent = pkg + "." + s.Parent
				}
				s.Qualified = pkg + "." + s.Qualified
			}
		}
	}
	return res, nil
}
