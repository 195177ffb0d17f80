package query

import (
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// blameLine returns the commit that last touched line (1-indexed) of file,
// relative to the repository rooted at root. Best-effort: any failure
// (not a git repo, file untracked, line out of range) yields nil rather
// than an error; blame is optional enrichment and its absence never
// fails enrich_symbol.
func blameLine(root, file string, line int) *BlameInfo {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = file
	}
	rel = filepath.ToSlash(rel)

	head, err := repo.Head()
	if err != nil {
		return nil
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil
	}
	result, err := gogit.Blame(commit, rel)
	if err != nil || line < 1 || line > len(result.Lines) {
		return nil
	}
	l := result.Lines[line-1]
	return &BlameInfo{
		Author: l.AuthorName,
		When:   l.Date.Format("2006-01-02"),
		Commit: l.Hash.String(),
	}
}
