package extract

import (
	"strings"

	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".rb"}, "ruby", ExtractorFunc(extractRuby))
}

var rubySpec = langSpec{
	language: "ruby",
	decls: map[string]declSpec{
		"method":         {symbolKind: model.KindFunction, nameField: "name"},
		"singleton_method": {symbolKind: model.KindFunction, nameField: "name"},
		"class":          {symbolKind: model.KindClass, nameField: "name", pushesScope: true},
		"module":         {symbolKind: model.KindModule, nameField: "name", pushesScope: true},
	},
	// Ruby's require/require_relative aren't statements in the grammar, they're
	// plain method calls; detecting them needs inspecting the call node's
	// method name, which is handled in fixupRubyRequires rather than here.
	importTypes:     map[string]bool{},
	identifierTypes: map[string]bool{"identifier": true, "constant": true},
	bindingParents:  map[string]bool{"method_parameters": true},
	qualSep:         "::",
	docCommentType:  "comment",
	visibilityFn:    rubyVisibility,
}

// rubyVisibility is a heuristic only: Ruby's private/protected are runtime
// calls that change the visibility of *subsequently defined* methods, not a
// per-declaration keyword tree-sitter exposes on the method node itself.
// Leading-underscore convention is used as a stand-in, matching the project
// default for methods whose author intended them as internal.
func rubyVisibility(declText string) model.Visibility {
	fields := strings.Fields(declText)
	for i, f := range fields {
		if (f == "def") && i+1 < len(fields) {
			name := fields[i+1]
			if strings.HasPrefix(name, "_") {
				return model.Private
			}
		}
	}
	return model.Public
}

func extractRuby(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	res, err := parseWith(ruby.GetLanguage(), rubySpec, path, source, maxDepth)
	if err != nil {
		return res, err
	}
	fixupRubyRequires(res, source)
	return res, nil
}

// fixupRubyRequires scans for require/require_relative calls by simple
// substring search over each line; a full grammar-aware pass would need a
// second walk matching "call" nodes whose method field is "require" or
// "require_relative", which is what this approximates without re-parsing.
func fixupRubyRequires(res *model.ParseResult, source []byte) {
	lines := strings.Split(string(source), "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, kw := range []string{"require_relative", "require"} {
			if strings.HasPrefix(trimmed, kw+" ") || strings.HasPrefix(trimmed, kw+"(") {
				rest := strings.TrimPrefix(trimmed, kw)
				rest = strings.Trim(rest, " ()")
				rest = strings.Trim(rest, "'\"")
				if rest != "" {
					res.Opens = append(res.Opens, model.ImportStatement{Path: rest})
				}
				break
			}
		}
	}
}
