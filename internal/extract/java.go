package extract

import (
	"strings"

	"github.com/smacker/go-tree-sitter/java"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".java"}, "java", ExtractorFunc(extractJava))
}

var javaSpec = langSpec{
	language: "java",
	decls: map[string]declSpec{
		"method_declaration":      {symbolKind: model.KindFunction, nameField: "name"},
		"constructor_declaration": {symbolKind: model.KindFunction, nameField: "name"},
		"class_declaration":       {symbolKind: model.KindClass, nameField: "name", pushesScope: true},
		"interface_declaration":   {symbolKind: model.KindInterface, nameField: "name", pushesScope: true},
		"enum_declaration":        {symbolKind: model.KindUnion, nameField: "name", pushesScope: true},
		"record_declaration":      {symbolKind: model.KindRecord, nameField: "name", pushesScope: true},
		"field_declaration":       {symbolKind: model.KindMember, nameField: ""},
	},
	importTypes:     map[string]bool{"import_declaration": true},
	identifierTypes: map[string]bool{"identifier": true},
	bindingParents:  map[string]bool{"formal_parameter": true},
	qualSep:         ".",
	docCommentType:  "block_comment",
	visibilityFn:    javaVisibility,
}

func javaVisibility(declText string) model.Visibility {
	fields := strings.Fields(declText)
	for _, f := range fields {
		switch f {
		case "public":
			return model.Public
		case "private":
			return model.Private
		case "protected":
			return model.Internal
		}
	}
	return model.Internal // package-private default
}

func extractJava(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	res, err := parseWith(java.GetLanguage(), javaSpec, path, source, maxDepth)
	if err != nil {
		return res, err
	}
	fixupJavaPackage(res, source)
	return res, nil
}

// fixupJavaPackage scans the leading "package a.b.c;" statement, which isn't
// modeled as a decl/import in javaSpec since it has no useful name field of
// its own, and prefixes every symbol's qualification with it.
func fixupJavaPackage(res *model.ParseResult, source []byte) {
	text := string(source)
	idx := strings.Index(text, "package ")
	if idx < 0 {
		return
	}
	rest := text[idx+len("package "):]
	end := strings.IndexByte(rest, ';')
	if end < 0 {
		return
	}
	pkg := strings.TrimSpace(rest[:end])
	if pkg == "" {
		return
	}
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
