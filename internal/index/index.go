// Package index implements the in-memory CodeIndex. It is the fast
// lookup tier that sits in front of the persistent SqliteIndex — symbols,
// references, and imports keyed for O(1) qualified-name and per-file
// access, plus the F#-only file-compilation-order table.
package index

import (
	"sort"
	"sync"

	"github.com/rocketindex/rocketindex/internal/model"
)

// CodeIndex holds four mappings: qualified -> Symbol, file -> symbols,
// file -> references, file -> opens. It is owned by exactly one
// ProjectState. Each method takes the index's own lock, so single calls
// are safe concurrently; a sequence of calls (RemoveFile followed by
// re-adding a file's symbols) is only atomic under the project's mutex,
// which serializes writers.
type CodeIndex struct {
	mu sync.RWMutex

	workspaceRoot string

	byQualified     map[string]model.Symbol
	byFileSymbols   map[string][]model.Symbol
	byFileReferences map[string][]model.Reference
	byFileOpens     map[string]map[string]bool

	// compilationOrder is F#-only: position in this slice determines which
	// later files may reference symbols in earlier ones. Empty for every
	// other language.
	compilationOrder []string
	orderIndex       map[string]int
}

// New creates an empty CodeIndex rooted at workspaceRoot.
func New(workspaceRoot string) *CodeIndex {
	return &CodeIndex{
		workspaceRoot:    workspaceRoot,
		byQualified:      make(map[string]model.Symbol),
		byFileSymbols:    make(map[string][]model.Symbol),
		byFileReferences: make(map[string][]model.Reference),
		byFileOpens:      make(map[string]map[string]bool),
		orderIndex:       make(map[string]int),
	}
}

// WorkspaceRoot returns the root this index was created for.
func (c *CodeIndex) WorkspaceRoot() string {
	return c.workspaceRoot
}

// AddSymbol inserts or overwrites a symbol keyed by its qualified name and
// appends it to its file's symbol list. Callers are responsible for
// removing stale entries first (see RemoveFile) — AddSymbol alone does not
// deduplicate by file.
func (c *CodeIndex) AddSymbol(s model.Symbol) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byQualified[s.Qualified] = s
	c.byFileSymbols[s.Location.File] = append(c.byFileSymbols[s.Location.File], s)
}

// AddReference records a reference as occurring in file.
func (c *CodeIndex) AddReference(file string, ref model.Reference) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byFileReferences[file] = append(c.byFileReferences[file], ref)
}

// AddOpen records module as imported by file.
func (c *CodeIndex) AddOpen(file, module string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.byFileOpens[file]
	if !ok {
		set = make(map[string]bool)
		c.byFileOpens[file] = set
	}
	set[module] = true
}

// Get looks up a symbol by its fully qualified name.
func (c *CodeIndex) Get(qualified string) (model.Symbol, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.byQualified[qualified]
	return s, ok
}

// SymbolsInFile returns the symbols defined in file, in source order (the
// order they were added, which AddSymbol preserves).
func (c *CodeIndex) SymbolsInFile(file string) []model.Symbol {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Symbol(nil), c.byFileSymbols[file]...)
}

// ReferencesInFile returns the references recorded from file.
func (c *CodeIndex) ReferencesInFile(file string) []model.Reference {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Reference(nil), c.byFileReferences[file]...)
}

// OpensForFile returns the set of module paths file imports.
func (c *CodeIndex) OpensForFile(file string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.byFileOpens[file]))
	for m := range c.byFileOpens[file] {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// AllFiles returns every file path the index has symbols, references, or
// opens recorded for.
func (c *CodeIndex) AllFiles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]bool)
	for f := range c.byFileSymbols {
		seen[f] = true
	}
	for f := range c.byFileReferences {
		seen[f] = true
	}
	for f := range c.byFileOpens {
		seen[f] = true
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// RemoveFile deletes every symbol, reference, and open keyed on file,
// keeping by_qualified and by_file_symbols in sync — a symbol vanishes
// from both atomically.
func (c *CodeIndex) RemoveFile(file string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.byFileSymbols[file] {
		// Only remove the by_qualified entry if it still points at this
		// file — a later AddSymbol call for a symbol of the same qualified
		// name in another file may already have overwritten it, in which
		// case leave it alone.
		if cur, ok := c.byQualified[s.Qualified]; ok && cur.Location.File == file {
			delete(c.byQualified, s.Qualified)
		}
	}
	delete(c.byFileSymbols, file)
	delete(c.byFileReferences, file)
	delete(c.byFileOpens, file)
}

// SymbolCount reports the total number of distinct qualified symbols, for
// diagnostics.
func (c *CodeIndex) SymbolCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byQualified)
}

// AllSymbols returns every symbol in the index, unordered. Callers needing
// a stable order should sort the result (e.g. GetAllSymbolsOrdered).
func (c *CodeIndex) AllSymbols() []model.Symbol {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Symbol, 0, len(c.byQualified))
	for _, s := range c.byQualified {
		out = append(out, s)
	}
	return out
}

// GetAllSymbolsOrdered returns every symbol ordered by (file,
// start_line), for cross-file callers that ask for a stable order
// explicitly.
func (c *CodeIndex) GetAllSymbolsOrdered() []model.Symbol {
	out := c.AllSymbols()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Location.File != out[j].Location.File {
			return out[i].Location.File < out[j].Location.File
		}
		return out[i].Location.StartLine < out[j].Location.StartLine
	})
	return out
}

// SetCompilationOrder records the F#-only file-compilation-order: position
// in files determines which later files may reference which earlier ones.
func (c *CodeIndex) SetCompilationOrder(files []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.compilationOrder = append([]string(nil), files...)
	c.orderIndex = make(map[string]int, len(files))
	for i, f := range files {
		c.orderIndex[f] = i
	}
}

// CanReference reports whether fromFile is permitted to reference a symbol
// declared in toFile. Outside of F# (no compilation order set, or either
// file absent from it) this is always true: only F#'s single-pass
// compile-order visibility rule restricts it.
func (c *CodeIndex) CanReference(fromFile, toFile string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.orderIndex) == 0 {
		return true
	}
	fromIdx, fromOK := c.orderIndex[fromFile]
	toIdx, toOK := c.orderIndex[toFile]
	if !fromOK || !toOK {
		return true
	}
	return toIdx <= fromIdx
}
