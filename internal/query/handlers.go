package query

import (
	"bufio"
	"os"
	"sort"
	"strings"

	charmlog "charm.land/log/v2"

	"github.com/rocketindex/rocketindex/internal/fuzzy"
	"github.com/rocketindex/rocketindex/internal/graph"
	"github.com/rocketindex/rocketindex/internal/model"
	"github.com/rocketindex/rocketindex/internal/project"
	"github.com/rocketindex/rocketindex/internal/resolve"
)

const staleWarning = "Warning: Index may be stale"

// defaultPatternLimit bounds find_definition's pattern-search stage, which
// has no caller-supplied limit the way search_symbols does.
const defaultPatternLimit = 50

// checkStale reports whether file's on-disk mtime is newer than the
// persistent index's last_parsed_at for it. A missing file or missing
// record is not considered stale.
func checkStale(ps *project.ProjectState, file string) bool {
	info, err := os.Stat(file)
	if err != nil {
		return false
	}
	_, lastParsedAt, err := ps.Store.FileMeta(file)
	if err != nil || lastParsedAt == 0 {
		return false
	}
	return info.ModTime().Unix() > lastParsedAt
}

// FindDefinition implements find_definition(symbol, file?, project_root?):
// exact qualified match first, then pattern search, then fuzzy fallback.
func FindDefinition(ps *project.ProjectState, symbolName, file string) (*FindDefinitionResult, error) {
	ps.Lock()
	var (
		candidates []Candidate
		stale      bool
	)

	if file != "" {
		if res, err := resolve.ResolveDotted(ps.Mem, symbolName, file); err == nil && res != nil {
			candidates = append(candidates, Candidate{Symbol: res.Symbol, ResolutionPath: res.ResolutionPath, Detail: res.Detail})
		}
	}
	if len(candidates) == 0 {
		if sym, ok := ps.Mem.Get(symbolName); ok {
			candidates = append(candidates, Candidate{Symbol: sym, ResolutionPath: model.PathQualified})
		}
	}
	// Exact match against the persistent store: covers a symbol it holds
	// that the in-memory index hasn't rehydrated.
	if len(candidates) == 0 {
		if sym, err := ps.Store.FindByQualified(symbolName); err == nil && sym != nil {
			candidates = append(candidates, Candidate{Symbol: *sym, ResolutionPath: model.PathQualified})
		}
	}

	// Pattern search, run against the persistent index — the backing
	// store for pattern queries that would be expensive over the
	// in-memory maps.
	if len(candidates) == 0 {
		matches, err := ps.Store.Search(symbolName, defaultPatternLimit, "")
		if err == nil {
			for _, s := range matches {
				candidates = append(candidates, Candidate{Symbol: s})
			}
		}
	}

	// Fuzzy fallback, also backed by the persistent index.
	if len(candidates) == 0 {
		matches, err := ps.Store.FuzzySearch(symbolName, fuzzy.DefaultMaxDistance, fuzzy.DefaultMaxSuggestions, "")
		if err == nil {
			for _, m := range matches {
				candidates = append(candidates, Candidate{
					Symbol:     m.Symbol,
					Fuzzy:      true,
					Confidence: 1.0 / float64(1+m.Distance),
				})
			}
		}
	}

	if len(candidates) > 0 {
		stale = checkStale(ps, candidates[0].Symbol.Location.File)
	} else if file != "" {
		stale = checkStale(ps, file)
	}
	ps.Unlock()

	result := &FindDefinitionResult{Candidates: candidates}
	if stale {
		result.Warning = staleWarning
	}
	if len(candidates) == 0 {
		charmlog.Warn("query: symbol not found", "project_root", ps.Root, "symbol", symbolName, "file", file)
		return result, &ErrSymbolNotFound{Query: symbolName}
	}
	return result, nil
}

// FindReferences implements find_references(symbol, context_lines?):
// returns all references matching name, grouped by file, read from the
// persisted references table.
func FindReferences(ps *project.ProjectState, symbolName string, contextLines int) (*FindReferencesResult, error) {
	ps.Lock()
	byFile := make(map[string][]ReferenceHit)
	refs, err := ps.Store.FindReferences(symbolName)
	if err != nil {
		ps.Unlock()
		charmlog.Error("query: find_references failed", "project_root", ps.Root, "symbol", symbolName, "error", err)
		return nil, err
	}
	for _, ref := range refs {
		file := ref.Location.File
		byFile[file] = append(byFile[file], ReferenceHit{Reference: ref})
	}
	var stale bool
	for f := range byFile {
		if checkStale(ps, f) {
			stale = true
			break
		}
	}
	ps.Unlock()

	if contextLines > 0 {
		for file, hits := range byFile {
			for i := range hits {
				hits[i].Context = readContext(file, hits[i].Reference.Location.StartLine, contextLines)
			}
		}
	}

	result := &FindReferencesResult{ByFile: byFile}
	if stale {
		result.Warning = staleWarning
	}
	if len(byFile) == 0 {
		charmlog.Warn("query: symbol not found", "project_root", ps.Root, "symbol", symbolName)
		return result, &ErrSymbolNotFound{Query: symbolName}
	}
	return result, nil
}

// FindCallers implements find_callers(symbol): reverse-spider depth=1.
func FindCallers(ps *project.ProjectState, symbolQualified string) (*DependencyResult, error) {
	return analyzeDependencies(ps, symbolQualified, 1, true)
}

// AnalyzeDependencies implements analyze_dependencies(symbol, depth, reverse).
func AnalyzeDependencies(ps *project.ProjectState, symbolQualified string, depth int, reverse bool) (*DependencyResult, error) {
	return analyzeDependencies(ps, symbolQualified, depth, reverse)
}

func analyzeDependencies(ps *project.ProjectState, symbolQualified string, depth int, reverse bool) (*DependencyResult, error) {
	if depth <= 0 {
		depth = 1
	}
	ps.Lock()
	var (
		res *graphResultAlias
		err error
	)
	if reverse {
		res, err = wrapSpiderResult(ps, symbolQualified, depth, true)
	} else {
		res, err = wrapSpiderResult(ps, symbolQualified, depth, false)
	}
	stale := false
	if res != nil && len(res.Nodes) > 0 {
		stale = checkStale(ps, res.Nodes[0].Symbol.Location.File)
	}
	ps.Unlock()
	if err != nil {
		charmlog.Error("query: dependency analysis failed", "project_root", ps.Root, "symbol", symbolQualified, "reverse", reverse, "error", err)
		return nil, err
	}

	out := &DependencyResult{Unresolved: res.Unresolved}
	for _, n := range res.Nodes {
		if n.Depth == 0 {
			continue
		}
		out.Nodes = append(out.Nodes, CallNode{Symbol: n.Symbol, Depth: n.Depth})
	}
	if stale {
		out.Warning = staleWarning
	}
	return out, nil
}

// graphResultAlias avoids importing internal/graph's Result type name twice
// in this file's public signatures while still reusing its shape directly.
type graphResultAlias = graph.Result

func wrapSpiderResult(ps *project.ProjectState, symbolQualified string, depth int, reverse bool) (*graphResultAlias, error) {
	if reverse {
		return graph.ReverseSpider(ps.Mem, symbolQualified, depth)
	}
	return graph.Spider(ps.Mem, symbolQualified, depth)
}

// SearchSymbols implements search_symbols(pattern, language?, fuzzy?, limit):
// pattern or fuzzy search, sorted exact-match first then by name length.
func SearchSymbols(ps *project.ProjectState, pattern, language string, useFuzzy bool, limit int) (*SearchResult, error) {
	ps.Lock()
	var matches []Candidate

	if useFuzzy {
		all := ps.Mem.AllSymbols()
		names := make([]string, 0, len(all))
		byName := make(map[string][]model.Symbol)
		for _, s := range all {
			if language != "" && s.Language != language {
				continue
			}
			names = append(names, s.Name)
			byName[s.Name] = append(byName[s.Name], s)
		}
		ranked := fuzzy.RankSubsequence(pattern, names)
		for _, r := range ranked {
			for _, s := range byName[r.Candidate] {
				matches = append(matches, Candidate{Symbol: s, Fuzzy: true})
			}
		}
	} else {
		for _, s := range ps.Mem.AllSymbols() {
			if language != "" && s.Language != language {
				continue
			}
			if !matchesPattern(pattern, s.Name) && !matchesPattern(pattern, s.Qualified) {
				continue
			}
			matches = append(matches, Candidate{Symbol: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		ei, ej := matches[i].Symbol.Name == pattern, matches[j].Symbol.Name == pattern
		if ei != ej {
			return ei
		}
		return len(matches[i].Symbol.Name) < len(matches[j].Symbol.Name)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	ps.Unlock()

	return &SearchResult{Matches: matches}, nil
}

func matchesPattern(pattern, candidate string) bool {
	if strings.Contains(pattern, "*") {
		// Each '*' stands for any run of characters: the literal pieces
		// between them must appear in candidate in order.
		rest := candidate
		for _, part := range strings.Split(pattern, "*") {
			i := strings.Index(rest, part)
			if i < 0 {
				return false
			}
			rest = rest[i+len(part):]
		}
		return true
	}
	return strings.Contains(candidate, pattern)
}

// EnrichSymbol implements enrich_symbol(symbol): definition, snippet,
// optional VCS blame, and depth-1 callers/callees.
func EnrichSymbol(ps *project.ProjectState, symbolQualified string) (*EnrichedSymbol, error) {
	ps.Lock()
	sym, ok := ps.Mem.Get(symbolQualified)
	if !ok {
		ps.Unlock()
		charmlog.Warn("query: symbol not found", "project_root", ps.Root, "symbol", symbolQualified)
		return nil, &ErrSymbolNotFound{Query: symbolQualified}
	}
	stale := checkStale(ps, sym.Location.File)

	forward, ferr := graph.Spider(ps.Mem, symbolQualified, 1)
	reverse, rerr := graph.ReverseSpider(ps.Mem, symbolQualified, 1)
	ps.Unlock()
	if ferr != nil {
		charmlog.Error("query: enrich_symbol callee spider failed", "project_root", ps.Root, "symbol", symbolQualified, "error", ferr)
		return nil, ferr
	}
	if rerr != nil {
		charmlog.Error("query: enrich_symbol caller spider failed", "project_root", ps.Root, "symbol", symbolQualified, "error", rerr)
		return nil, rerr
	}

	out := &EnrichedSymbol{Symbol: sym}
	if stale {
		out.Warning = staleWarning
	}
	out.Snippet = readSnippet(sym.Location.File, sym.Location.StartLine, sym.Location.EndLine)
	for _, n := range forward.Nodes {
		if n.Depth == 1 {
			out.Callees = append(out.Callees, CallNode{Symbol: n.Symbol, Depth: 1})
		}
	}
	for _, n := range reverse.Nodes {
		if n.Depth == 1 {
			out.Callers = append(out.Callers, CallNode{Symbol: n.Symbol, Depth: 1})
		}
	}
	out.Blame = blameLine(ps.Root, sym.Location.File, sym.Location.StartLine)
	return out, nil
}

// readContext returns up to 2*n+1 lines of source centered on line
// (1-indexed), best-effort: a missing file yields nil, not an error.
func readContext(file string, line, n int) []string {
	lines := readLines(file)
	if lines == nil {
		return nil
	}
	start := line - n - 1
	if start < 0 {
		start = 0
	}
	end := line + n
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return nil
	}
	return append([]string(nil), lines[start:end]...)
}

func readSnippet(file string, startLine, endLine int) string {
	lines := readLines(file)
	if lines == nil || startLine < 1 || startLine > len(lines) {
		return ""
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	return strings.Join(lines[startLine-1:endLine], "\n")
}

func readLines(file string) []string {
	f, err := os.Open(file)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		out = append(out, scanner.Text())
	}
	return out
}
