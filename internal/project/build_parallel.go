package project

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	charmlog "charm.land/log/v2"
	"golang.org/x/sync/errgroup"

	"github.com/rocketindex/rocketindex/internal/extract"
	"github.com/rocketindex/rocketindex/internal/model"
	"github.com/rocketindex/rocketindex/internal/resolve"
	"github.com/rocketindex/rocketindex/internal/store"
)

// maxParseDepth bounds the tree-walk depth, matching internal/extract's
// DefaultMaxDepth convention of "0 means default."
const maxParseDepth = 0

// rebuildParallel discovers files, parses changed ones across a worker
// pool, then commits results serially while holding ps's mutex
// (a file's in-memory update is a RemoveFile followed by several Add
// calls that must not interleave with another file's, and ReplaceFile's
// transaction must not interleave across goroutines).
// Files no longer present are removed.
func (m *Manager) rebuildParallel(ctx context.Context, ps *ProjectState) error {
	paths, err := DiscoverFiles(ps.Root)
	if err != nil {
		return fmt.Errorf("project: discover files under %s: %w", ps.Root, err)
	}
	current := make(map[string]bool, len(paths))
	for _, p := range paths {
		current[p] = true
	}

	type parsed struct {
		path   string
		meta   model.FileMetadata
		result *model.ParseResult
		skip   bool
		err    error
	}
	results := make([]parsed, len(paths))

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	grp, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)

	for i, path := range paths {
		i, path := i, path
		grp.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			info, err := os.Stat(path)
			if err != nil {
				results[i] = parsed{path: path, err: err}
				return nil
			}

			ps.Lock()
			existing, _, metaErr := ps.Store.FileMeta(path)
			ps.Unlock()

			content, err := os.ReadFile(path)
			if err != nil {
				results[i] = parsed{path: path, err: err}
				return nil
			}
			hash := contentHash(content)

			lang, _ := extract.LanguageForFile(path)

			if metaErr == nil && existing != nil && existing.ContentHash == hash {
				p := parsed{path: path, skip: true}
				if existing.MTimeUnix != info.ModTime().Unix() {
					// Content unchanged but the file was touched: refresh
					// the stored mtime so staleness checks stop flagging it.
					p.meta = model.FileMetadata{
						Path:        path,
						MTimeUnix:   info.ModTime().Unix(),
						ContentHash: hash,
						Language:    lang,
					}
				}
				results[i] = p
				return nil
			}

			res, err := extract.Extract(path, content, maxParseDepth)
			if err != nil {
				results[i] = parsed{path: path, err: fmt.Errorf("parse %s: %w", path, err)}
				return nil
			}
			meta := model.FileMetadata{
				Path:        path,
				MTimeUnix:   info.ModTime().Unix(),
				ContentHash: hash,
				Language:    lang,
			}
			results[i] = parsed{path: path, meta: meta, result: res}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	ps.Lock()
	defer ps.Unlock()

	now := time.Now()
	var firstErr error
	// changedNames collects the short names of symbols whose signature
	// hash changed (or that were added/removed) in this rebuild, feeding
	// the dependent-file re-resolution pass below.
	changedNames := make(map[string]bool)
	rebuilt := make(map[string]bool)
	for _, r := range results {
		if r.skip {
			if r.meta.Path != "" {
				if err := ps.Store.UpsertFile(r.meta, now); err != nil && firstErr == nil {
					firstErr = err
				}
			}
			continue
		}
		if r.path == "" {
			continue
		}
		if r.err != nil {
			charmlog.Warn("build: file failed", "path", r.path, "error", r.err)
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		for _, d := range r.result.Errors {
			charmlog.Warn("build: parse error", "path", r.path, "language", r.meta.Language, "message", d.Message)
		}
		for _, d := range r.result.Warnings {
			charmlog.Warn("build: parse warning", "path", r.path, "language", r.meta.Language, "message", d.Message)
		}
		oldHashes, hashErr := ps.Store.SignatureHashesForFile(r.path)
		if err := ps.Store.ReplaceFile(r.path, r.meta, r.result, now); err != nil {
			charmlog.Error("build: commit failed", "path", r.path, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("project: commit %s: %w", r.path, err)
			}
			continue
		}
		rebuilt[r.path] = true
		if hashErr == nil {
			for _, sym := range r.result.Symbols {
				h := store.ComputeSignatureHash(sym)
				if old, ok := oldHashes[sym.Qualified]; !ok || old != h {
					changedNames[sym.Name] = true
				}
				delete(oldHashes, sym.Qualified)
			}
			// Anything left was deleted by this re-parse.
			for qual := range oldHashes {
				changedNames[shortName(qual)] = true
			}
		}
		ps.Mem.RemoveFile(r.path)
		for _, sym := range r.result.Symbols {
			ps.Mem.AddSymbol(sym)
		}
		for _, ref := range r.result.References {
			ps.Mem.AddReference(r.path, ref)
		}
		for _, open := range r.result.Opens {
			ps.Mem.AddOpen(r.path, open.Path)
		}
	}

	stored, err := ps.Store.ListFiles()
	if err != nil {
		return err
	}
	for _, f := range stored {
		if !current[f] {
			for _, sym := range ps.Mem.SymbolsInFile(f) {
				changedNames[sym.Name] = true
			}
			if err := ps.Store.RemoveFile(f); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			ps.Mem.RemoveFile(f)
		}
	}

	if fsharpFiles := fsharpOrder(paths); len(fsharpFiles) > 0 {
		ps.Mem.SetCompilationOrder(fsharpFiles)
	}

	if len(changedNames) > 0 {
		reresolveDependents(ps, changedNames, rebuilt)
	}

	return firstErr
}

// reresolveDependents re-resolves the references of every file that
// mentions a symbol whose signature hash changed in this rebuild — the
// changed file's blast radius. Resolution is computed at query time, so
// there is no stored edge to rewrite; the value is surfacing breaks
// immediately: a dependent whose reference no longer resolves gets logged
// now instead of at its next query.
func reresolveDependents(ps *ProjectState, changedNames, rebuilt map[string]bool) {
	dependents := 0
	for _, file := range ps.Mem.AllFiles() {
		if rebuilt[file] {
			continue
		}
		touched := false
		unresolved := 0
		for _, ref := range ps.Mem.ReferencesInFile(file) {
			if !changedNames[shortName(ref.Name)] {
				continue
			}
			touched = true
			res, err := resolve.ResolveDotted(ps.Mem, ref.Name, file)
			if err == nil && res == nil {
				unresolved++
			}
		}
		if !touched {
			continue
		}
		dependents++
		if unresolved > 0 {
			charmlog.Warn("build: references no longer resolve after interface change",
				"path", file, "count", unresolved)
		}
	}
	if dependents > 0 {
		charmlog.Info("build: re-resolved dependents of changed symbols",
			"changed_symbols", len(changedNames), "files", dependents)
	}
}

// shortName returns the last segment of a possibly qualified name,
// whatever its language's separator.
func shortName(name string) string {
	best := name
	for _, sep := range []string{"::", "\\", "."} {
		if i := strings.LastIndex(best, sep); i >= 0 {
			best = best[i+len(sep):]
		}
	}
	return best
}

// fsharpOrder returns the .fs files among paths in the order DiscoverFiles
// already sorted them (lexicographic by full path), which for the common
// "NN_name.fs" project-file convention matches build order closely enough
// for CanReference's single-pass rule. Returns nil when there is no F# in
// this workspace.
func fsharpOrder(paths []string) []string {
	var out []string
	for _, p := range paths {
		if lang, ok := extract.LanguageForFile(p); ok && lang == "fsharp" {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
