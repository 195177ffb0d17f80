package extract

import (
	"path/filepath"
	"strings"

	"github.com/rocketindex/rocketindex/internal/model"
)

// Extractor is the contract every language module implements: parse source
// text into a concrete syntax tree (or best-effort heuristic structure) and
// emit a ParseResult. maxDepth <= 0 means DefaultMaxDepth.
type Extractor interface {
	Extract(path string, source []byte, maxDepth int) (*model.ParseResult, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(path string, source []byte, maxDepth int) (*model.ParseResult, error)

func (f ExtractorFunc) Extract(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	return f(path, source, maxDepth)
}

// registry is the static, build-time-fixed extension -> Extractor dispatch
// table. The language set is closed at compile time; populated by each
// language file's init.
var registry = map[string]Extractor{}

// languageNames maps canonical language tag -> Extractor; its keys back
// SupportedLanguages.
var languageNames = map[string]Extractor{}

func register(exts []string, lang string, ex Extractor) {
	for _, e := range exts {
		registry[e] = ex
		extToLanguage[e] = lang
	}
	languageNames[lang] = ex
}

// extToLanguage maps a lowercased extension to its canonical language tag.
var extToLanguage = map[string]string{}

// Extract dispatches path to the extractor registered for its lowercased
// extension. An unrecognized extension returns an empty ParseResult with a
// single warning, never an error.
func Extract(path string, source []byte, maxDepth int) (*model.ParseResult, error) {
	ext := strings.ToLower(filepath.Ext(path))
	ex, ok := registry[ext]
	if !ok {
		return &model.ParseResult{
			Warnings: []model.Diagnostic{{
				Severity: model.SeverityWarning,
				Message:  "unrecognized file extension: " + ext,
			}},
		}, nil
	}
	return ex.Extract(path, source, maxDepth)
}

// LanguageForFile returns the canonical language name for a file path based
// on its extension, and whether it is recognized.
func LanguageForFile(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// SupportedLanguages returns the canonical language tags the registry knows
// about, for diagnostics/CLI listing.
func SupportedLanguages() []string {
	names := make([]string, 0, len(languageNames))
	for name := range languageNames {
		names = append(names, name)
	}
	return names
}
