// Package query implements the stateless query service layered over the
// project manager. Every handler here takes a *project.ProjectState it
// did not create and must not retain, copies out what it needs while the
// project's mutex is held, and releases the lock before any further
// blocking work (reading source files, VCS blame).
package query

import "github.com/rocketindex/rocketindex/internal/model"

// Candidate is one match returned by find_definition/search_symbols: a
// symbol plus how it was found.
type Candidate struct {
	Symbol         model.Symbol
	ResolutionPath model.ResolutionPath `json:"resolution_path,omitempty"`
	Detail         string               `json:"detail,omitempty"`
	Context        string               `json:"context,omitempty"`
	Fuzzy          bool                 `json:"fuzzy,omitempty"`
	Confidence     float64              `json:"confidence,omitempty"`
}

// FindDefinitionResult is find_definition's response payload.
type FindDefinitionResult struct {
	Candidates []Candidate
	Warning    string `json:"warning,omitempty"`
}

// ReferenceHit is one reference location with optional surrounding context.
type ReferenceHit struct {
	Reference model.Reference
	Context   []string `json:"context,omitempty"`
}

// FindReferencesResult groups references by the file they occur in.
type FindReferencesResult struct {
	ByFile  map[string][]ReferenceHit
	Warning string `json:"warning,omitempty"`
}

// CallNode is one entry in a find_callers/analyze_dependencies result.
type CallNode struct {
	Symbol model.Symbol
	Depth  int
}

// DependencyResult is find_callers/analyze_dependencies' response.
type DependencyResult struct {
	Nodes      []CallNode
	Unresolved []string `json:"unresolved,omitempty"`
	Warning    string   `json:"warning,omitempty"`
}

// SearchResult is search_symbols' response.
type SearchResult struct {
	Matches []Candidate
	Warning string `json:"warning,omitempty"`
}

// EnrichedSymbol is enrich_symbol's response.
type EnrichedSymbol struct {
	Symbol    model.Symbol
	Snippet   string     `json:"snippet,omitempty"`
	Blame     *BlameInfo `json:"blame,omitempty"`
	Callers   []CallNode
	Callees   []CallNode
	Warning   string `json:"warning,omitempty"`
}

// BlameInfo is the optional VCS-blame enrichment for the symbol's defining
// line, populated only when the workspace is a git repository.
type BlameInfo struct {
	Author string
	When   string
	Commit string
}

// DetailLevel is describe_project's detail parameter.
type DetailLevel string

const (
	DetailSummary DetailLevel = "summary"
	DetailNormal  DetailLevel = "normal"
	DetailFull    DetailLevel = "full"
)

// ProjectMap is describe_project's structured response, before Markdown
// rendering.
type ProjectMap struct {
	Root    string
	Detail  DetailLevel
	Files   []FileSection
	Warning string `json:"warning,omitempty"`
}

// FileSection is one file's entry in a ProjectMap.
type FileSection struct {
	Path    string
	Symbols []model.RankedSymbol
}

// ErrSymbolNotFound means resolution and pattern search both came back
// empty.
type ErrSymbolNotFound struct {
	Query       string
	Suggestions []string
}

func (e *ErrSymbolNotFound) Error() string {
	return "query: symbol not found: " + e.Query
}
