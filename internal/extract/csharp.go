package extract

import (
	"strings"

	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".cs"}, "csharp", ExtractorFunc(extractCSharp))
}

var csharpSpec = langSpec{
	language: "csharp",
	decls: map[string]declSpec{
		"method_declaration":    {symbolKind: model.KindFunction, nameField: "name"},
		"constructor_declaration": {symbolKind: model.KindFunction, nameField: "name"},
		"class_declaration":     {symbolKind: model.KindClass, nameField: "name", pushesScope: true},
		"interface_declaration": {symbolKind: model.KindInterface, nameField: "name", pushesScope: true},
		"struct_declaration":    {symbolKind: model.KindRecord, nameField: "name", pushesScope: true},
		"enum_declaration":      {symbolKind: model.KindUnion, nameField: "name", pushesScope: true},
		"namespace_declaration": {symbolKind: model.KindModule, nameField: "name", pushesScope: true},
		"property_declaration":  {symbolKind: model.KindMember, nameField: "name"},
	},
	importTypes:     map[string]bool{"using_directive": true},
	identifierTypes: map[string]bool{"identifier": true},
	bindingParents:  map[string]bool{"parameter": true},
	importPathFn:    csharpUsingPaths,
	qualSep:         ".",
	docCommentType:  "comment",
	visibilityFn:    javaVisibility, // same public/private/protected keyword set
}

// csharpUsingPaths handles the alias ("using X = A.B;") and static
// ("using static A.B;") forms on top of the plain directive: the
// namespace path on the right is what gets matched against qualified
// names, never the alias name.
func csharpUsingPaths(_, text string) []string {
	p := cleanImportText(text)
	p = strings.TrimPrefix(p, "static ")
	if i := strings.IndexByte(p, '='); i >= 0 {
		p = strings.TrimSpace(p[i+1:])
	}
	return []string{p}
}

func extractCSharp(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	res, err := parseWith(csharp.GetLanguage(), csharpSpec, path, source, maxDepth)
	if err != nil {
		return res, err
	}
	if idx := strings.Index(string(source), "namespace "); idx >= 0 {
		// namespace_declaration is already captured as a pushesScope decl, so
		// this only needs to set ModulePath for diagnostics/display; symbol
		// qualification already nests correctly under it via the walk.
		rest := string(source)[idx+len("namespace "):]
		fields := strings.FieldsFunc(rest, func(r rune) bool { return r == '{' || r == ';' || r == '\n' })
		if len(fields) > 0 {
			res.ModulePath = strings.TrimSpace(fields[0])
		}
	}
	return res, nil
}
