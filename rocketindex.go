package rocketindex

import (
	"context"

	"github.com/rocketindex/rocketindex/internal/project"
	"github.com/rocketindex/rocketindex/internal/query"
)

// Engine is the public facade over internal/project's manager and
// internal/query's handlers.
type Engine struct {
	mgr *project.Manager
}

// New creates an Engine with an empty project registry.
func New() *Engine {
	return &Engine{mgr: project.NewManager()}
}

// Register opens root's existing persistent index without rebuilding it.
// Returns project.ErrIndexNotFound if none exists yet.
func (e *Engine) Register(root string) (*project.ProjectState, error) {
	return e.mgr.Register(root)
}

// Build creates the persistent index at root, or reuses an existing one
// (force deletes it first), and parses every file whose content the index
// does not already hold.
func (e *Engine) Build(ctx context.Context, root string, force bool) (*project.ProjectState, error) {
	return e.mgr.BuildFresh(ctx, root, force)
}

// Rebuild re-parses every changed file under ps's root.
func (e *Engine) Rebuild(ctx context.Context, ps *project.ProjectState) error {
	return e.mgr.Rebuild(ctx, ps)
}

// Deregister closes and forgets root's project state.
func (e *Engine) Deregister(root string) error {
	return e.mgr.Deregister(root)
}

// ForFile selects the registered project containing file.
func (e *Engine) ForFile(file string) (*project.ProjectState, bool) {
	return e.mgr.ForFile(file)
}

// Projects returns every registered project's state.
func (e *Engine) Projects() []*project.ProjectState {
	return e.mgr.All()
}

// FindDefinition implements find_definition.
func (e *Engine) FindDefinition(ps *project.ProjectState, symbol, file string) (*query.FindDefinitionResult, error) {
	return query.FindDefinition(ps, symbol, file)
}

// FindReferences implements find_references.
func (e *Engine) FindReferences(ps *project.ProjectState, symbol string, contextLines int) (*query.FindReferencesResult, error) {
	return query.FindReferences(ps, symbol, contextLines)
}

// FindCallers implements find_callers.
func (e *Engine) FindCallers(ps *project.ProjectState, symbolQualified string) (*query.DependencyResult, error) {
	return query.FindCallers(ps, symbolQualified)
}

// AnalyzeDependencies implements analyze_dependencies.
func (e *Engine) AnalyzeDependencies(ps *project.ProjectState, symbolQualified string, depth int, reverse bool) (*query.DependencyResult, error) {
	return query.AnalyzeDependencies(ps, symbolQualified, depth, reverse)
}

// SearchSymbols implements search_symbols.
func (e *Engine) SearchSymbols(ps *project.ProjectState, pattern, language string, fuzzy bool, limit int) (*query.SearchResult, error) {
	return query.SearchSymbols(ps, pattern, language, fuzzy, limit)
}

// EnrichSymbol implements enrich_symbol.
func (e *Engine) EnrichSymbol(ps *project.ProjectState, symbolQualified string) (*query.EnrichedSymbol, error) {
	return query.EnrichSymbol(ps, symbolQualified)
}

// DescribeProject implements describe_project.
func (e *Engine) DescribeProject(ps *project.ProjectState, detail query.DetailLevel) (*query.ProjectMap, error) {
	return query.DescribeProject(ps, detail)
}
