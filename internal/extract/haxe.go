package extract

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/rocketindex/rocketindex/internal/model"
)

func init() {
	register([]string{".hx"}, "haxe", ExtractorFunc(extractHaxe))
}

// Haxe has no tree-sitter grammar binding in this registry either; same
// line-oriented regexp fallback as fsharp.go/objectivec.go, same tradeoff.
var (
	hxPackageRe = regexp.MustCompile(`^\s*package\s+([A-Za-z0-9_.]*)\s*;`)
	hxClassRe   = regexp.MustCompile(`^\s*(?:public\s+|private\s+)*class\s+([A-Za-z_][A-Za-z0-9_]*)`)
	hxFuncRe    = regexp.MustCompile(`^\s*(?:public\s+|private\s+|static\s+|override\s+|inline\s+)*function\s+([A-Za-z_][A-Za-z0-9_]*)`)
	hxImportRe  = regexp.MustCompile(`^\s*import\s+([A-Za-z0-9_.]+)`)
)

func extractHaxe(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	res := newParseResult()
	scanner := bufio.NewScanner(bytes.NewReader(source))
	lineNo := 0
	pkg := ""
	currentClass := ""
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if m := hxPackageRe.FindStringSubmatch(line); m != nil {
			pkg = m[1]
			res.ModulePath = pkg
			continue
		}
		if m := hxImportRe.FindStringSubmatch(line); m != nil {
			res.Opens = append(res.Opens, model.ImportStatement{Path: m[1]})
			continue
		}
		if m := hxClassRe.FindStringSubmatch(line); m != nil {
			currentClass = m[1]
			qual := currentClass
			if pkg != "" {
				qual = pkg + "." + currentClass
			}
			res.Symbols = append(res.Symbols, model.Symbol{
				Name: currentClass, Qualified: qual, Kind: model.KindClass,
				Location: ocLoc(path, lineNo, line), Visibility: haxeVisibility(line),
				Language: "haxe", Signature: strings.TrimSpace(line), Parent: pkg,
			})
			continue
		}
		if m := hxFuncRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			parent := currentClass
			if pkg != "" && currentClass != "" {
				parent = pkg + "." + currentClass
			}
			qual := name
			if parent != "" {
				qual = parent + "." + name
			}
			res.Symbols = append(res.Symbols, model.Symbol{
				Name: name, Qualified: qual, Kind: model.KindFunction,
				Location: ocLoc(path, lineNo, line), Visibility: haxeVisibility(line),
				Language: "haxe", Signature: strings.TrimSpace(line), Parent: parent,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		res.Errors = append(res.Errors, model.Diagnostic{Severity: model.SeverityError, Message: err.Error()})
	}
	return res, nil
}

func haxeVisibility(line string) model.Visibility {
	if strings.Contains(line, "private") {
		return model.Private
	}
	return model.Public
}
