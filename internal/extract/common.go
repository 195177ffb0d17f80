// Package extract implements the language parser registry. Each
// supported language has its own file defining how to recognize
// declaration/reference/import sites in that language's concrete syntax
// tree; they share the depth-limited walk engine in this file.
package extract

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/rocketindex/rocketindex/internal/model"
)

// DefaultMaxDepth is used when callers pass maxDepth <= 0.
const DefaultMaxDepth = 100

// declSpec describes how to turn a matched declaration node into a Symbol.
type declSpec struct {
	symbolKind   model.SymbolKind
	// nameField is the tree-sitter field name holding the declaration's
	// name node (e.g. "name"). Empty means "first identifier-ish child".
	nameField string
	// pushesScope is true when descendants should be qualified under this
	// symbol's name (classes, modules, impls). Functions/values do not
	// (their bodies don't introduce a dotted qualification scope).
	pushesScope bool
}

// langSpec is the per-language table driving the shared walk engine.
type langSpec struct {
	language string
	// decls maps a tree-sitter node type to how it should be captured.
	decls map[string]declSpec
	// importTypes are node types that represent an import/use/open.
	importTypes map[string]bool
	// identifierTypes are node types that are leaf identifier references.
	identifierTypes map[string]bool
	// bindingParents are node types whose identifier children are *not*
	// references (parameters, let-bindings): skip descending into them for
	// reference purposes, but still walk for nested decls.
	bindingParents map[string]bool
	// qualSep joins qualifier segments ("." for most languages, "::" for
	// Ruby, "\" for PHP).
	qualSep string
	// importPathFn reduces a matched import node's source text to the
	// module path(s) it brings into scope. Nil means cleanImportText.
	importPathFn func(filePath, text string) []string
	// docCommentType is the node type of a leading doc comment, if any.
	docCommentType string
	// visibilityFn inspects a decl node's source text for a visibility
	// keyword (public/private/internal). Returns "" to use the language
	// default.
	visibilityFn func(src string) model.Visibility
}

// walkState threads mutable accumulation through the recursive walk.
type walkState struct {
	src      []byte
	path     string
	maxDepth int
	result   *model.ParseResult
	qual     []string // qualifier stack (module/class names)
}

func newParseResult() *model.ParseResult {
	return &model.ParseResult{}
}

func toLocation(path string, n *sitter.Node) model.Location {
	sp := n.StartPoint()
	ep := n.EndPoint()
	return model.Location{
		File:      path,
		StartLine: int(sp.Row) + 1,
		StartCol:  int(sp.Column) + 1,
		EndLine:   int(ep.Row) + 1,
		EndCol:    int(ep.Column) + 1,
	}
}

// walkGeneric performs a depth-limited top-down walk of the tree: for each
// node, decide via langSpec whether it is a decl, an import, or a
// reference; recurse into children, pruning once maxDepth is exceeded and
// recording a warning exactly once per file.
func walkGeneric(spec langSpec, path string, src []byte, root *sitter.Node, maxDepth int) *model.ParseResult {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	st := &walkState{
		src:      src,
		path:     path,
		maxDepth: maxDepth,
		result:   newParseResult(),
	}
	prunedOnce := false
	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		if n == nil {
			return
		}
		if depth > st.maxDepth {
			if !prunedOnce {
				st.result.Warnings = append(st.result.Warnings, model.Diagnostic{
					Severity: model.SeverityWarning,
					Message:  fmt.Sprintf("max depth %d exceeded; pruning remaining descent", st.maxDepth),
					Location: toLocation(path, n),
				})
				prunedOnce = true
			}
			return
		}
		if n.IsError() || n.IsMissing() {
			st.result.Errors = append(st.result.Errors, model.Diagnostic{
				Severity: model.SeverityError,
				Message:  "syntax error",
				Location: toLocation(path, n),
			})
		}

		typ := n.Type()

		if spec.importTypes[typ] {
			emitImport(spec, st, n)
		}

		if ds, ok := spec.decls[typ]; ok {
			emitSymbol(spec, st, n, ds)
			if ds.pushesScope {
				name := declName(spec, n, ds, st.src)
				st.qual = append(st.qual, name)
				walkChildren(n, depth, walk)
				st.qual = st.qual[:len(st.qual)-1]
				return
			}
			walkChildren(n, depth, walk)
			return
		}

		if spec.identifierTypes[typ] && !spec.bindingParents[parentType(n)] {
			emitReference(st, n)
		}

		walkChildren(n, depth, walk)
	}
	walk(root, 0)
	return st.result
}

func parentType(n *sitter.Node) string {
	p := n.Parent()
	if p == nil {
		return ""
	}
	return p.Type()
}

func walkChildren(n *sitter.Node, depth int, walk func(*sitter.Node, int)) {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		walk(c, depth+1)
	}
}

func declName(spec langSpec, n *sitter.Node, ds declSpec, src []byte) string {
	if ds.nameField != "" {
		if fn := n.ChildByFieldName(ds.nameField); fn != nil {
			return fn.Content(src)
		}
	}
	// Fall back to the first identifier-shaped named child.
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil {
			continue
		}
		if strings.Contains(c.Type(), "identifier") {
			return c.Content(src)
		}
	}
	return "<anonymous>"
}

func leadingDoc(spec langSpec, n *sitter.Node, src []byte) string {
	if spec.docCommentType == "" {
		return ""
	}
	prev := n.PrevSibling()
	var lines []string
	for prev != nil && prev.Type() == spec.docCommentType {
		lines = append([]string{prev.Content(src)}, lines...)
		prev = prev.PrevSibling()
	}
	return strings.Join(lines, "\n")
}

func oneLineSignature(n *sitter.Node, src []byte) string {
	text := n.Content(src)
	if i := strings.IndexAny(text, "{\n"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

func emitSymbol(spec langSpec, st *walkState, n *sitter.Node, ds declSpec) {
	name := declName(spec, n, ds, st.src)
	sep := spec.qualSep
	if sep == "" {
		sep = "."
	}
	qual := name
	if len(st.qual) > 0 {
		qual = strings.Join(st.qual, sep) + sep + name
	}
	vis := model.Public
	if spec.visibilityFn != nil {
		if v := spec.visibilityFn(n.Content(st.src)); v != "" {
			vis = v
		}
	}
	var parent string
	if len(st.qual) > 0 {
		parent = strings.Join(st.qual, sep)
	}
	st.result.Symbols = append(st.result.Symbols, model.Symbol{
		Name:       name,
		Qualified:  qual,
		Kind:       ds.symbolKind,
		Location:   toLocation(st.path, n),
		Visibility: vis,
		Language:   spec.language,
		Signature:  oneLineSignature(n, st.src),
		Doc:        leadingDoc(spec, n, st.src),
		Parent:     parent,
	})
}

func emitImport(spec langSpec, st *walkState, n *sitter.Node) {
	text := strings.TrimSpace(n.Content(st.src))
	paths := []string{cleanImportText(text)}
	if spec.importPathFn != nil {
		paths = spec.importPathFn(st.path, text)
	}
	for _, p := range paths {
		if p != "" {
			st.result.Opens = append(st.result.Opens, model.ImportStatement{Path: p})
		}
	}
}

// cleanImportText reduces an import statement's raw source text to the
// module path it names: the leading keyword, a trailing semicolon, an
// "as" alias, and quote/angle-bracket delimiters are all stripped. The
// resolver side (internal/resolve's viaOpens) matches opens against
// qualified names, so what gets stored here must be the bare path.
func cleanImportText(text string) string {
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	for _, kw := range []string{"import static", "import", "using namespace", "using", "use", "open", "#include", "#import"} {
		if rest, ok := strings.CutPrefix(text, kw+" "); ok {
			text = strings.TrimSpace(rest)
			break
		}
	}
	if i := strings.Index(text, " as "); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	return strings.Trim(text, "\"'<> ")
}

// quotedPortion returns the first single- or double-quoted substring of
// text, or "" when none is present.
func quotedPortion(text string) string {
	for _, q := range []byte{'"', '\''} {
		i := strings.IndexByte(text, q)
		if i < 0 {
			continue
		}
		if j := strings.IndexByte(text[i+1:], q); j >= 0 {
			return text[i+1 : i+1+j]
		}
	}
	return ""
}

func emitReference(st *walkState, n *sitter.Node) {
	st.result.References = append(st.result.References, model.Reference{
		Name:     n.Content(st.src),
		Location: toLocation(st.path, n),
	})
}

// parseWith parses src with the given tree-sitter language and runs the
// generic walk. Parser errors are not fatal: tree-sitter always returns a
// best-effort tree, so we simply let ERROR/MISSING nodes surface through
// walkGeneric's error recording.
func parseWith(lang *sitter.Language, spec langSpec, path string, src []byte, maxDepth int) (*model.ParseResult, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return &model.ParseResult{
			Errors: []model.Diagnostic{{Severity: model.SeverityError, Message: err.Error()}},
		}, nil
	}
	defer tree.Close()
	root := tree.RootNode()
	return walkGeneric(spec, path, src, root, maxDepth), nil
}
