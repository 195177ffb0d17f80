package extract

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".fs", ".fsx"}, "fsharp", ExtractorFunc(extractFSharp))
}

// F# has no grammar binding in the tree-sitter distribution this registry
// otherwise uses; apart from this file, objectivec.go and haxe.go, every
// language extractor walks a real concrete syntax tree. This one falls back to line-oriented regexp
// matching over the standard library's bufio/regexp, which is the only
// option left once no CST is available. Diagnostics reflect that: it emits
// no syntax-error detection and its locations are line-granular only.
var (
	fsModuleRe = regexp.MustCompile(`^\s*(?:namespace|module)\s+([A-Za-z0-9_.]+)`)
	fsLetRe    = regexp.MustCompile(`^\s*let\s+(?:rec\s+)?(?:private\s+)?([A-Za-z_][A-Za-z0-9_']*)`)
	fsTypeRe   = regexp.MustCompile(`^\s*type\s+([A-Za-z_][A-Za-z0-9_']*)`)
	fsOpenRe   = regexp.MustCompile(`^\s*open\s+([A-Za-z0-9_.]+)`)
)

func extractFSharp(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	res := newParseResult()
	scanner := bufio.NewScanner(bytes.NewReader(source))
	lineNo := 0
	modulePath := ""
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if m := fsModuleRe.FindStringSubmatch(line); m != nil {
			modulePath = m[1]
			res.ModulePath = modulePath
			continue
		}
		if m := fsOpenRe.FindStringSubmatch(line); m != nil {
			res.Opens = append(res.Opens, model.ImportStatement{Path: m[1]})
			continue
		}
		if m := fsTypeRe.FindStringSubmatch(line); m != nil {
			res.Symbols = append(res.Symbols, fsSymbol(path, modulePath, m[1], model.KindType, line, lineNo))
			continue
		}
		if m := fsLetRe.FindStringSubmatch(line); m != nil {
			res.Symbols = append(res.Symbols, fsSymbol(path, modulePath, m[1], model.KindFunction, line, lineNo))
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		res.Errors = append(res.Errors, model.Diagnostic{Severity: model.SeverityError, Message: err.Error()})
	}
	return res, nil
}

func fsSymbol(path, modulePath, name string, kind model.SymbolKind, line string, lineNo int) model.Symbol {
	qual := name
	if modulePath != "" {
		qual = modulePath + "." + name
	}
	vis := model.Public
	if strings.Contains(line, "private") {
		vis = model.Private
	}
	return model.Symbol{
		Name:       name,
		Qualified:  qual,
		Kind:       kind,
		Location:   model.Location{File: path, StartLine: lineNo, StartCol: 1, EndLine: lineNo, EndCol: len(line) + 1},
		Visibility: vis,
		Language:   "fsharp",
		Signature:  strings.TrimSpace(line),
		Parent:     modulePath,
	}
}
