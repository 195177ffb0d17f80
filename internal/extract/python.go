package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/smacker/go-tree-sitter/python"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".py"}, "python", ExtractorFunc(extractPython))
}

var pythonSpec = langSpec{
	language: "python",
	decls: map[string]declSpec{
		"function_definition": {symbolKind: model.KindFunction, nameField: "name"},
		"class_definition":    {symbolKind: model.KindClass, nameField: "name", pushesScope: true},
	},
	importTypes:     map[string]bool{"import_statement": true, "import_from_statement": true},
	identifierTypes: map[string]bool{"identifier": true},
	bindingParents:  map[string]bool{"parameters": true, "lambda_parameters": true},
	importPathFn:    pythonImportPaths,
	qualSep:         ".",
	docCommentType:  "comment",
	visibilityFn:    pythonVisibility,
}

// pythonVisibility applies the leading-underscore convention: _name is
// Private, __name (no trailing dunder) stays Private too, everything else
// is Public. Python has no true access control; this mirrors convention.
func pythonVisibility(declText string) model.Visibility {
	fields := strings.Fields(declText)
	for i, f := range fields {
		if f == "def" || f == "class" {
			if i+1 < len(fields) {
				name := strings.TrimRight(fields[i+1], "(:")
				if strings.HasPrefix(name, "_") {
					return model.Private
				}
				return model.Public
			}
		}
	}
	return model.Public
}

// pythonImportPaths reduces "import a.b, c as d" to [a.b, c] and
// "from a.b import c" to [a.b] — the resolver's "for each import, try
// import.name" strategy wants the module path, never the bound alias.
func pythonImportPaths(_, text string) []string {
	text = strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(text, "from "); ok {
		if i := strings.Index(rest, " import"); i >= 0 {
			rest = rest[:i]
		}
		return []string{strings.TrimSpace(rest)}
	}
	text = strings.TrimPrefix(text, "import ")
	var out []string
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if i := strings.Index(part, " as "); i >= 0 {
			part = part[:i]
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func extractPython(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	res, err := parseWith(python.GetLanguage(), pythonSpec, path, source, maxDepth)
	if err != nil {
		return res, err
	}
	res.ModulePath = pythonPackagePath(path)
	if res.ModulePath != "" {
		for i := range res.Symbols {
			s := &res.Symbols[i]
			if s.Parent == "" {
				s.Parent = res.ModulePath
			} else {
				s.Parent = res.ModulePath + "." + s.Parent
			}
			s.Qualified = res.ModulePath + "." + s.Qualified
		}
	}
	return res, nil
}

// pythonPackagePath walks upward from the file's directory collecting the
// names of consecutive ancestor directories that each contain an
// __init__.py, stopping at the first ancestor that doesn't. A file that
// isn't itself inside a package (a bare top-level script, for instance)
// gets no module prefix at all: its symbols are qualified exactly by their
// own nesting, matching how they're actually referenced from within the
// same file or package.
func pythonPackagePath(path string) string {
	dir := filepath.Dir(path)
	var segments []string
	for {
		if _, err := os.Stat(filepath.Join(dir, "__init__.py")); err != nil {
			break
		}
		parent := filepath.Dir(dir)
		name := filepath.Base(dir)
		if name == "" || name == "." || parent == dir {
			break
		}
		segments = append([]string{name}, segments...)
		dir = parent
	}
	return strings.Join(segments, ".")
}
