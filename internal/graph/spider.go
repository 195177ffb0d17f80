// Package graph implements the bounded breadth-first graph walker
// ("spider") over the call/reference graph, resolving edges on the fly
// via internal/resolve rather than a precomputed edge table.
package graph

import (
	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/model"
	"github.com/rocketindex/rocketindex/internal/resolve"
)

// Node is a symbol reached during a walk, tagged with its BFS depth from
// the entry point (0 = the entry itself).
type Node struct {
	Symbol model.Symbol
	Depth  int
}

// Result is what Spider/ReverseSpider return: the reachable set in
// depth-ascending, insertion-order-within-depth order, plus any reference
// names that could not be resolved along the way.
type Result struct {
	Nodes      []Node
	Unresolved []string
}

// Spider performs a bounded forward traversal from entryQualified: at each
// symbol, every reference contained in that symbol's span is resolved
// (using the symbol's own file as the resolution context) and, if it
// points at a symbol not yet visited, added to the next BFS frontier.
// Cycles are broken by a visited set keyed on Qualified, never by depth
// alone.
func Spider(idx *index.CodeIndex, entryQualified string, maxDepth int) (*Result, error) {
	entry, ok := idx.Get(entryQualified)
	if !ok {
		return &Result{}, nil
	}

	result := &Result{Nodes: []Node{{Symbol: entry, Depth: 0}}}
	visited := map[string]bool{entryQualified: true}
	unresolvedSeen := map[string]bool{}

	type frontierEntry struct {
		symbol model.Symbol
		depth  int
	}
	frontier := []frontierEntry{{symbol: entry, depth: 0}}

	for len(frontier) > 0 && frontier[0].depth < maxDepth {
		current := frontier[0]
		frontier = frontier[1:]

		for _, ref := range referencesWithin(idx, current.symbol) {
			res, err := resolve.ResolveDotted(idx, ref.Name, current.symbol.Location.File)
			if err != nil {
				return nil, err
			}
			if res == nil {
				if !unresolvedSeen[ref.Name] {
					unresolvedSeen[ref.Name] = true
					result.Unresolved = append(result.Unresolved, ref.Name)
				}
				continue
			}
			if visited[res.Symbol.Qualified] {
				continue
			}
			visited[res.Symbol.Qualified] = true
			depth := current.depth + 1
			result.Nodes = append(result.Nodes, Node{Symbol: res.Symbol, Depth: depth})
			frontier = append(frontier, frontierEntry{symbol: res.Symbol, depth: depth})
		}
	}

	return result, nil
}

// ReverseSpider performs a bounded reverse traversal from entryQualified:
// at each symbol, every reference in the entire index whose resolved
// target is that symbol promotes its enclosing symbol to the next
// frontier. Used for find_callers and reverse analyze_dependencies.
func ReverseSpider(idx *index.CodeIndex, entryQualified string, maxDepth int) (*Result, error) {
	entry, ok := idx.Get(entryQualified)
	if !ok {
		return &Result{}, nil
	}

	result := &Result{Nodes: []Node{{Symbol: entry, Depth: 0}}}
	visited := map[string]bool{entryQualified: true}

	type frontierEntry struct {
		qualified string
		depth     int
	}
	frontier := []frontierEntry{{qualified: entryQualified, depth: 0}}

	for len(frontier) > 0 && frontier[0].depth < maxDepth {
		current := frontier[0]
		frontier = frontier[1:]

		for _, file := range idx.AllFiles() {
			for _, ref := range idx.ReferencesInFile(file) {
				res, err := resolve.ResolveDotted(idx, ref.Name, file)
				if err != nil {
					return nil, err
				}
				if res == nil || res.Symbol.Qualified != current.qualified {
					continue
				}
				caller, ok := enclosingSymbol(idx, file, ref.Location)
				if !ok || visited[caller.Qualified] {
					continue
				}
				visited[caller.Qualified] = true
				depth := current.depth + 1
				result.Nodes = append(result.Nodes, Node{Symbol: caller, Depth: depth})
				frontier = append(frontier, frontierEntry{qualified: caller.Qualified, depth: depth})
			}
		}
	}

	return result, nil
}

// referencesWithin returns the references recorded from sym's file whose
// span falls inside sym's own span.
func referencesWithin(idx *index.CodeIndex, sym model.Symbol) []model.Reference {
	var out []model.Reference
	for _, ref := range idx.ReferencesInFile(sym.Location.File) {
		if spanContains(sym.Location, ref.Location) {
			out = append(out, ref)
		}
	}
	return out
}

// enclosingSymbol returns the narrowest symbol in file whose span contains
// loc, used by ReverseSpider to find "who made this reference".
func enclosingSymbol(idx *index.CodeIndex, file string, loc model.Location) (model.Symbol, bool) {
	var best model.Symbol
	found := false
	bestSpan := -1
	for _, s := range idx.SymbolsInFile(file) {
		if !spanContains(s.Location, loc) {
			continue
		}
		span := spanSize(s.Location)
		if !found || span < bestSpan {
			best = s
			bestSpan = span
			found = true
		}
	}
	return best, found
}

func spanContains(outer, inner model.Location) bool {
	if inner.StartLine < outer.StartLine || inner.EndLine > outer.EndLine {
		return false
	}
	if inner.StartLine == outer.StartLine && inner.StartCol < outer.StartCol {
		return false
	}
	if inner.EndLine == outer.EndLine && inner.EndCol > outer.EndCol {
		return false
	}
	return true
}

func spanSize(loc model.Location) int {
	return (loc.EndLine-loc.StartLine)*100000 + (loc.EndCol - loc.StartCol)
}
