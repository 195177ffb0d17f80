// Package rocketindex provides multi-language code intelligence: symbol
// extraction, an in-memory and persistent index, name resolution, fuzzy
// matching, call-graph traversal, importance ranking, and a project
// manager and query service built on top of them.
//
// # Usage
//
// Open or build a project's index, then query it:
//
//	e := rocketindex.New()
//	ps, err := e.Build(ctx, "path/to/project", false)
//	if err != nil { ... }
//
//	def, err := e.FindDefinition(ps, "Widget.Render", "")
//	refs, err := e.FindReferences(ps, "Widget.Render", 2)
//	deps, err := e.AnalyzeDependencies(ps, "Widget.Render", 2, false)
//
// On subsequent runs, Register reopens an already-built project without
// reparsing:
//
//	ps, err := e.Register("path/to/project")
//	err = e.Rebuild(ctx, ps)
//
// # Query API
//
// The methods on [Engine] mirror internal/query's operations:
//
//   - [Engine.FindDefinition] — exact, then pattern, then fuzzy lookup.
//   - [Engine.FindReferences] — all uses of a name, grouped by file.
//   - [Engine.FindCallers] / [Engine.AnalyzeDependencies] — call-graph walk.
//   - [Engine.SearchSymbols] — substring/wildcard or fuzzy symbol search.
//   - [Engine.EnrichSymbol] — definition, snippet, blame, and neighbors.
//   - [Engine.DescribeProject] — a ranked project map at three detail levels.
package rocketindex
