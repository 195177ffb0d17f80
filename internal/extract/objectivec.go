package extract

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".m", ".mm"}, "objectivec", ExtractorFunc(extractObjectiveC))
}

// Objective-C, like F# and Haxe, has no tree-sitter grammar binding
// available in this registry's toolkit, so the best an in-process
// extractor can do without vendoring a new grammar is a regexp scan of
// @interface/@implementation/method lines. This trades CST precision
// (no nested-scope tracking, no distinguishing a method's body from its
// signature) for coverage of the language at all.
var (
	ocInterfaceRe = regexp.MustCompile(`^@interface\s+([A-Za-z_][A-Za-z0-9_]*)`)
	ocImplRe      = regexp.MustCompile(`^@implementation\s+([A-Za-z_][A-Za-z0-9_]*)`)
	ocMethodRe    = regexp.MustCompile(`^[-+]\s*\([^)]*\)\s*([A-Za-z_][A-Za-z0-9_]*)`)
	ocImportRe    = regexp.MustCompile(`^#import\s+["<]([^">]+)[">]`)
)

func extractObjectiveC(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	res := newParseResult()
	scanner := bufio.NewScanner(bytes.NewReader(source))
	lineNo := 0
	currentClass := ""
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if m := ocImportRe.FindStringSubmatch(line); m != nil {
			res.Opens = append(res.Opens, model.ImportStatement{Path: m[1]})
			continue
		}
		if m := ocInterfaceRe.FindStringSubmatch(line); m != nil {
			currentClass = m[1]
			res.Symbols = append(res.Symbols, model.Symbol{
				Name: currentClass, Qualified: currentClass, Kind: model.KindClass,
				Location: ocLoc(path, lineNo, line), Visibility: model.Public, Language: "objectivec",
				Signature: line,
			})
			continue
		}
		if m := ocImplRe.FindStringSubmatch(line); m != nil {
			currentClass = m[1]
			continue
		}
		if m := ocMethodRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			qual := name
			if currentClass != "" {
				qual = currentClass + "." + name
			}
			res.Symbols = append(res.Symbols, model.Symbol{
				Name: name, Qualified: qual, Kind: model.KindFunction,
				Location: ocLoc(path, lineNo, line), Visibility: model.Public, Language: "objectivec",
				Signature: line, Parent: currentClass,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		res.Errors = append(res.Errors, model.Diagnostic{Severity: model.SeverityError, Message: err.Error()})
	}
	return res, nil
}

func ocLoc(path string, lineNo int, line string) model.Location {
	return model.Location{File: path, StartLine: lineNo, StartCol: 1, EndLine: lineNo, EndCol: len(line) + 1}
}
