// Package project implements per-project state (in-memory + persistent
// index pair) guarded by locks, registration/deregistration, staleness
// detection, and incremental/full (re)builds — plus the watch-mode
// PID-file lock.
package project

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/store"
)

// indexSubdir is where a project's persistent state lives, relative to
// its root.
const indexSubdir = ".rocketindex"

// ProjectState holds one project's (root, in-memory index, persistent
// index, watching flag). Reads and writes against Mem and Store must
// hold mu for the duration — no blocking work while it is held.
type ProjectState struct {
	Root     string
	Mem      *index.CodeIndex
	Store    *store.Store
	Watching bool

	mu sync.Mutex
}

// Lock acquires the project's mutual-exclusion guard. Callers must Unlock
// and must not await (suspend) while holding it.
func (p *ProjectState) Lock()   { p.mu.Lock() }
func (p *ProjectState) Unlock() { p.mu.Unlock() }

// Manager is a map from canonical project root to ProjectState,
// guarded by a reader-writer lock at the map level. Concurrent rebuild
// requests for the same root are collapsed via singleflight.
type Manager struct {
	mapMu    sync.RWMutex
	projects map[string]*ProjectState
	sf       singleflight.Group
}

// NewManager creates an empty project manager.
func NewManager() *Manager {
	return &Manager{projects: make(map[string]*ProjectState)}
}

// dbPath returns the persistent index path for root.
func dbPath(root string) string {
	return filepath.Join(root, indexSubdir, "index.db")
}

// Register canonicalises root and opens its persistent index. If the
// project is already registered, Register is a no-op. If the index does
// not yet exist, it returns ErrIndexNotFound — the caller must Build
// first.
func (m *Manager) Register(root string) (*ProjectState, error) {
	canon, err := canonicalize(root)
	if err != nil {
		return nil, fmt.Errorf("project: canonicalize %s: %w", root, err)
	}

	m.mapMu.RLock()
	if ps, ok := m.projects[canon]; ok {
		m.mapMu.RUnlock()
		return ps, nil
	}
	m.mapMu.RUnlock()

	db := dbPath(canon)
	if _, err := os.Stat(db); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexNotFound
		}
		return nil, err
	}

	s, err := store.Open(db)
	if err != nil {
		return nil, fmt.Errorf("project: open persistent index: %w", err)
	}
	if ok, err := s.Integrity(); err != nil || !ok {
		// Corruption policy: discard and rebuild from source rather
		// than serve a possibly-inconsistent index.
		store.Discard(db, s)
		return nil, ErrIndexNotFound
	}

	mem := index.New(canon)
	if err := rehydrate(mem, s); err != nil {
		s.Close()
		return nil, fmt.Errorf("project: rehydrate in-memory index: %w", err)
	}

	ps := &ProjectState{Root: canon, Mem: mem, Store: s}

	m.mapMu.Lock()
	if existing, ok := m.projects[canon]; ok {
		m.mapMu.Unlock()
		s.Close()
		return existing, nil
	}
	m.projects[canon] = ps
	m.mapMu.Unlock()
	return ps, nil
}

// Deregister closes and removes root's project state. No-op if absent.
func (m *Manager) Deregister(root string) error {
	canon, err := canonicalize(root)
	if err != nil {
		return err
	}
	m.mapMu.Lock()
	ps, ok := m.projects[canon]
	delete(m.projects, canon)
	m.mapMu.Unlock()
	if !ok {
		return nil
	}
	ps.Lock()
	defer ps.Unlock()
	return ps.Store.Close()
}

// Get returns the registered state for root, if any.
func (m *Manager) Get(root string) (*ProjectState, bool) {
	canon, err := canonicalize(root)
	if err != nil {
		return nil, false
	}
	m.mapMu.RLock()
	defer m.mapMu.RUnlock()
	ps, ok := m.projects[canon]
	return ps, ok
}

// ForFile selects the project whose root contains file, by
// longest-prefix match among registered projects.
func (m *Manager) ForFile(file string) (*ProjectState, bool) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, false
	}
	m.mapMu.RLock()
	defer m.mapMu.RUnlock()
	var best *ProjectState
	bestLen := -1
	for root, ps := range m.projects {
		if isWithin(root, abs) && len(root) > bestLen {
			best = ps
			bestLen = len(root)
		}
	}
	return best, best != nil
}

// All returns every registered project's state, for "enumerate all
// registered projects" query selection.
func (m *Manager) All() []*ProjectState {
	m.mapMu.RLock()
	defer m.mapMu.RUnlock()
	out := make([]*ProjectState, 0, len(m.projects))
	for _, ps := range m.projects {
		out = append(out, ps)
	}
	return out
}

// BuildFresh opens the persistent index at root, creating it if absent
// (force deletes an existing one first), loads what it already holds into
// the in-memory index, and runs Rebuild over the workspace.
func (m *Manager) BuildFresh(ctx context.Context, root string, force bool) (*ProjectState, error) {
	canon, err := canonicalize(root)
	if err != nil {
		return nil, err
	}
	db := dbPath(canon)
	if err := os.MkdirAll(filepath.Dir(db), 0o755); err != nil {
		return nil, fmt.Errorf("project: create %s: %w", filepath.Dir(db), err)
	}
	if force {
		os.Remove(db)
	}

	s, err := store.Create(db)
	if err != nil {
		return nil, fmt.Errorf("project: create persistent index: %w", err)
	}
	mem := index.New(canon)
	if err := rehydrate(mem, s); err != nil {
		s.Close()
		return nil, fmt.Errorf("project: rehydrate in-memory index: %w", err)
	}
	ps := &ProjectState{Root: canon, Mem: mem, Store: s}

	m.mapMu.Lock()
	m.projects[canon] = ps
	m.mapMu.Unlock()

	if err := m.Rebuild(ctx, ps); err != nil {
		return ps, err
	}
	return ps, nil
}

// Rebuild walks the project's workspace, parses every changed file, and
// updates both the persistent and in-memory indices. Concurrent Rebuild
// calls for the same root are collapsed into one via singleflight.
func (m *Manager) Rebuild(ctx context.Context, ps *ProjectState) error {
	_, err, _ := m.sf.Do(ps.Root, func() (any, error) {
		return nil, m.rebuildParallel(ctx, ps)
	})
	return err
}

// rehydrate loads every file's symbols, references, and imports from s
// into mem, per Register's "rehydrate the in-memory index from persistent
// storage by iterating files" requirement.
func rehydrate(mem *index.CodeIndex, s *store.Store) error {
	files, err := s.ListFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		syms, err := s.SymbolsInFile(f)
		if err != nil {
			return err
		}
		for _, sym := range syms {
			mem.AddSymbol(sym)
		}
		refs, err := s.ReferencesInFile(f)
		if err != nil {
			return err
		}
		for _, r := range refs {
			mem.AddReference(f, r)
		}
		opens, err := s.OpensForFile(f)
		if err != nil {
			return err
		}
		for _, o := range opens {
			mem.AddOpen(f, o)
		}
	}
	return nil
}

func canonicalize(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The root may not exist yet in tests; fall back to the absolute
		// form rather than failing registration outright.
		return abs, nil
	}
	return resolved, nil
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (len(rel) > 0 && rel[0] != '.' && !filepath.IsAbs(rel))
}

func contentHash(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}
