package extract

import (
	"strings"

	"github.com/smacker/go-tree-sitter/swift"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".swift"}, "swift", ExtractorFunc(extractSwift))
}

var swiftSpec = langSpec{
	language: "swift",
	decls: map[string]declSpec{
		"function_declaration": {symbolKind: model.KindFunction, nameField: "name"},
		"class_declaration":    {symbolKind: model.KindClass, nameField: "name", pushesScope: true},
		"protocol_declaration":  {symbolKind: model.KindInterface, nameField: "name", pushesScope: true},
		"enum_declaration":     {symbolKind: model.KindUnion, nameField: "name", pushesScope: true},
	},
	importTypes:     map[string]bool{"import_declaration": true},
	identifierTypes: map[string]bool{"simple_identifier": true},
	bindingParents:  map[string]bool{"parameter": true},
	qualSep:         ".",
	docCommentType:  "comment",
	visibilityFn:    swiftVisibility,
}

func swiftVisibility(declText string) model.Visibility {
	fields := strings.Fields(declText)
	for _, f := range fields {
		switch f {
		case "private", "fileprivate":
			return model.Private
		case "internal":
			return model.Internal
		case "public", "open":
			return model.Public
		}
	}
	return model.Internal // Swift's actual default
}

func extractSwift(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	res, err := parseWith(swift.GetLanguage(), swiftSpec, path, source, maxDepth)
	if err != nil {
		return res, err
	}
	// Swift has no package/namespace declaration of its own; modules map to
	// build targets, which extraction has no visibility into, so symbols
	// are left qualified by type nesting alone.
	return res, nil
}
