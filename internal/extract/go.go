package extract

import (
	"context"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".go"}, "go", ExtractorFunc(extractGo))
}

var goSpec = langSpec{
	language: "go",
	decls: map[string]declSpec{
		"function_declaration": {symbolKind: model.KindFunction, nameField: "name"},
		"method_declaration":   {symbolKind: model.KindFunction, nameField: "name"},
		"type_spec":            {symbolKind: model.KindType, nameField: "name", pushesScope: true},
		"const_spec":           {symbolKind: model.KindValue, nameField: "name"},
		"var_spec":             {symbolKind: model.KindValue, nameField: "name"},
	},
	importTypes:     map[string]bool{"import_spec": true},
	identifierTypes: map[string]bool{"identifier": true, "field_identifier": true},
	bindingParents:  map[string]bool{"parameter_declaration": true},
	importPathFn:    goImportPath,
	qualSep:         ".",
	docCommentType:  "comment",
	visibilityFn:    goVisibility,
}

// goVisibility applies Go's capitalization-based export rule.
func goVisibility(declText string) model.Visibility {
	trimmed := strings.TrimLeft(declText, "*&")
	// A method's receiver list sits between "func" and the method name;
	// skip it so the receiver variable's case is not mistaken for the name's.
	if rest, ok := strings.CutPrefix(trimmed, "func ("); ok {
		if i := strings.IndexByte(rest, ')'); i >= 0 {
			trimmed = rest[i+1:]
		}
	}
	// Look at the name immediately following the decl keyword; cheap
	// heuristic: find the first identifier-looking rune run and check case.
	fields := strings.Fields(trimmed)
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool { return !unicode.IsLetter(r) && r != '_' })
		if f == "" || isGoKeyword(f) {
			continue
		}
		r := []rune(f)[0]
		if unicode.IsUpper(r) {
			return model.Public
		}
		return model.Private
	}
	return model.Public
}

// goImportPath strips an import_spec down to its quoted path; a spec with
// an alias or dot/blank name keeps only the path.
func goImportPath(_, text string) []string {
	if p := quotedPortion(text); p != "" {
		return []string{p}
	}
	return []string{strings.TrimSpace(text)}
}

func isGoKeyword(s string) bool {
	switch s {
	case "func", "type", "const", "var", "struct", "interface", "map", "chan":
		return true
	}
	return false
}

func extractGo(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	lang := golang.GetLanguage()
	res, err := parseWith(lang, goSpec, path, source, maxDepth)
	if err != nil {
		return res, err
	}
	fixupGo(res, source)
	fixupGoReceivers(res, lang, path, source)
	return res, nil
}

// fixupGoReceivers requalifies method symbols as package.Receiver.Method,
// since method_declaration nodes are not nested under their receiver's
// type_spec in tree-sitter-go's grammar — the receiver type has to be read
// out of the "receiver" field directly.
func fixupGoReceivers(res *model.ParseResult, lang *sitter.Language, path string, source []byte) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return
	}
	defer tree.Close()

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "method_declaration" {
			if recv := n.ChildByFieldName("receiver"); recv != nil {
				recvType := receiverTypeName(recv, source)
				loc := toLocation(path, n)
				for i := range res.Symbols {
					s := &res.Symbols[i]
					if s.Kind == model.KindFunction && s.Location == loc {
						pkg := res.ModulePath
						s.Qualified = pkg + "." + recvType + "." + s.Name
						s.Parent = pkg + "." + recvType
					}
				}
			}
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
}

// receiverTypeName extracts the bare type identifier from a method
// receiver's parameter list, stripping pointer and generic decoration
// ("*Foo[T]" -> "Foo").
func receiverTypeName(recv *sitter.Node, source []byte) string {
	text := recv.Content(source)
	text = strings.Trim(text, "()")
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "Unknown"
	}
	typeTok := fields[len(fields)-1]
	typeTok = strings.TrimPrefix(typeTok, "*")
	if idx := strings.IndexByte(typeTok, '['); idx >= 0 {
		typeTok = typeTok[:idx]
	}
	return typeTok
}

// fixupGo rewrites qualified names to the Go convention: package.Name for
// top-level declarations, package.Type.Method for methods (receiver type
// instead of the generic "type_spec" qualifier, since tree-sitter's grammar
// doesn't nest method_declaration under its receiver's type_spec).
func fixupGo(res *model.ParseResult, source []byte) {
	pkg := "main"
	// package_clause isn't modeled as a decl/import in goSpec; scan source
	// directly for "package NAME" since it always appears once, at the top.
	if idx := strings.Index(string(source), "package "); idx >= 0 {
		rest := string(source)[idx+len("package "):]
		fields := strings.Fields(rest)
		if len(fields) > 0 {
			pkg = strings.TrimSpace(fields[0])
		}
	}
	res.ModulePath = pkg
	for i := range res.Symbols {
		s := &res.Symbols[i]
		if s.Parent == "" {
			s.Qualified = pkg + "." + s.Name
			s.Parent = pkg
		} else {
			s.Qualified = pkg + "." + s.Qualified
			s.Parent = pkg + "." + s.Parent
		}
	}
}
