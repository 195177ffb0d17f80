package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/rocketindex/rocketindex/internal/model"
)

const symbolCols = "id, name, qualified, kind, language, visibility, file, start_line, start_col, end_line, end_col, signature, doc, parent"

func scanSymbol(scan func(dest ...any) error) (int64, model.Symbol, error) {
	var (
		id                             int64
		signature, doc, parent         sql.NullString
		s                              model.Symbol
	)
	err := scan(&id, &s.Name, &s.Qualified, &s.Kind, &s.Language, &s.Visibility,
		&s.Location.File, &s.Location.StartLine, &s.Location.StartCol, &s.Location.EndLine, &s.Location.EndCol,
		&signature, &doc, &parent)
	if err != nil {
		return 0, model.Symbol{}, err
	}
	s.Signature = signature.String
	s.Doc = doc.String
	s.Parent = parent.String
	return id, s, nil
}

// UpsertFile records or updates a file's metadata row. mtime is a Unix
// timestamp; lastParsedAt marks when this replace_file ran.
func (s *Store) UpsertFile(meta model.FileMetadata, lastParsedAt time.Time) error {
	_, err := s.db.Exec(`INSERT INTO files(path, language, mtime, hash, last_parsed_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET language = excluded.language, mtime = excluded.mtime,
			hash = excluded.hash, last_parsed_at = excluded.last_parsed_at`,
		meta.Path, meta.Language, meta.MTimeUnix, meta.ContentHash, lastParsedAt.Unix())
	return err
}

// FileMeta returns the stored metadata for path, or nil if not indexed.
func (s *Store) FileMeta(path string) (*model.FileMetadata, int64, error) {
	var m model.FileMetadata
	var lastParsedAt int64
	err := s.db.QueryRow("SELECT path, language, mtime, hash, last_parsed_at FROM files WHERE path = ?", path).
		Scan(&m.Path, &m.Language, &m.MTimeUnix, &m.ContentHash, &lastParsedAt)
	if err == sql.ErrNoRows {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return &m, lastParsedAt, nil
}

// ListFiles returns every indexed file path.
func (s *Store) ListFiles() ([]string, error) {
	rows, err := s.db.Query("SELECT path FROM files ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountSymbols returns the total number of symbol rows.
func (s *Store) CountSymbols() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM symbols").Scan(&n)
	return n, err
}

// ReplaceFile atomically deletes every row keyed on path and inserts the
// rows from result, within a single transaction. This is the only
// supported mutation for an already-indexed file.
func (s *Store) ReplaceFile(path string, meta model.FileMetadata, result *model.ParseResult, lastParsedAt time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: replace_file begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT id FROM symbols WHERE file = ?", path)
	if err != nil {
		return fmt.Errorf("store: replace_file lookup symbol ids: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()

	if len(ids) > 0 {
		ph := placeholderList(len(ids))
		args := int64sToArgs(ids)
		if _, err := tx.Exec("DELETE FROM symbol_bases WHERE symbol_id IN ("+ph+")", args...); err != nil {
			return fmt.Errorf("store: replace_file delete symbol_bases: %w", err)
		}
	}
	for _, q := range []string{
		"DELETE FROM symbols WHERE file = ?",
		"DELETE FROM references_ WHERE file = ?",
		"DELETE FROM opens WHERE file = ?",
	} {
		if _, err := tx.Exec(q, path); err != nil {
			return fmt.Errorf("store: replace_file delete: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO files(path, language, mtime, hash, last_parsed_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET language = excluded.language, mtime = excluded.mtime,
			hash = excluded.hash, last_parsed_at = excluded.last_parsed_at`,
		meta.Path, meta.Language, meta.MTimeUnix, meta.ContentHash, lastParsedAt.Unix()); err != nil {
		return fmt.Errorf("store: replace_file upsert file: %w", err)
	}

	for _, sym := range result.Symbols {
		res, err := tx.Exec(`INSERT INTO symbols(name, qualified, kind, language, visibility, file,
				start_line, start_col, end_line, end_col, signature, doc, parent, sig_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sym.Name, sym.Qualified, sym.Kind, sym.Language, sym.Visibility, sym.Location.File,
			sym.Location.StartLine, sym.Location.StartCol, sym.Location.EndLine, sym.Location.EndCol,
			nullable(sym.Signature), nullable(sym.Doc), nullable(sym.Parent), ComputeSignatureHash(sym))
		if err != nil {
			return fmt.Errorf("store: replace_file insert symbol %s: %w", sym.Qualified, err)
		}
		symbolID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, base := range sym.Implements {
			if _, err := tx.Exec("INSERT INTO symbol_bases(symbol_id, base_qualified, relation) VALUES (?, ?, 'implements')", symbolID, base); err != nil {
				return fmt.Errorf("store: replace_file insert symbol_base: %w", err)
			}
		}
		for _, mixin := range sym.Mixins {
			if _, err := tx.Exec("INSERT INTO symbol_bases(symbol_id, base_qualified, relation) VALUES (?, ?, 'mixin')", symbolID, mixin); err != nil {
				return fmt.Errorf("store: replace_file insert symbol_base mixin: %w", err)
			}
		}
	}

	for _, ref := range result.References {
		if _, err := tx.Exec(`INSERT INTO references_(file, name, line, col, end_line, end_col) VALUES (?, ?, ?, ?, ?, ?)`,
			ref.Location.File, ref.Name, ref.Location.StartLine, ref.Location.StartCol, ref.Location.EndLine, ref.Location.EndCol); err != nil {
			return fmt.Errorf("store: replace_file insert reference: %w", err)
		}
	}

	for _, open := range result.Opens {
		if _, err := tx.Exec("INSERT INTO opens(file, module) VALUES (?, ?)", path, open.Path); err != nil {
			return fmt.Errorf("store: replace_file insert open: %w", err)
		}
	}

	return tx.Commit()
}

// RemoveFile deletes every row keyed on path, used when a file disappears
// from the workspace between builds.
func (s *Store) RemoveFile(path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	rows, err := tx.Query("SELECT id FROM symbols WHERE file = ?", path)
	if err != nil {
		return err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if len(ids) > 0 {
		ph := placeholderList(len(ids))
		if _, err := tx.Exec("DELETE FROM symbol_bases WHERE symbol_id IN ("+ph+")", int64sToArgs(ids)...); err != nil {
			return err
		}
	}
	for _, q := range []string{
		"DELETE FROM symbols WHERE file = ?",
		"DELETE FROM references_ WHERE file = ?",
		"DELETE FROM opens WHERE file = ?",
		"DELETE FROM files WHERE path = ?",
	} {
		if _, err := tx.Exec(q, path); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// FindByQualified returns the symbol with the given qualified name, or nil
// if absent. When multiple languages share a qualified name the first
// match wins; callers that care about language pass it via FindByQualifiedLang.
func (s *Store) FindByQualified(qualified string) (*model.Symbol, error) {
	row := s.db.QueryRow("SELECT "+symbolCols+" FROM symbols WHERE qualified = ? LIMIT 1", qualified)
	_, sym, err := scanSymbol(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sym, nil
}

// FindByQualifiedLang is FindByQualified scoped to one language;
// qualified names are only unique within a language.
func (s *Store) FindByQualifiedLang(qualified, language string) (*model.Symbol, error) {
	row := s.db.QueryRow("SELECT "+symbolCols+" FROM symbols WHERE qualified = ? AND language = ? LIMIT 1", qualified, language)
	_, sym, err := scanSymbol(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sym, nil
}

// ftsPrefixPattern recognizes "Word*" shaped patterns that the symbols_fts
// prefix index can answer directly.
var ftsPrefixPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\*$`)

// searchPrefixFTS answers a trailing-wildcard word pattern through the
// symbols_fts prefix index instead of a full-table LIKE scan.
func (s *Store) searchPrefixFTS(pattern string, limit int, language string) ([]model.Symbol, error) {
	term := strings.TrimSuffix(pattern, "*")
	q := "SELECT " + qualifyCols("sy.") + ` FROM symbols_fts
		JOIN symbols sy ON sy.id = symbols_fts.rowid
		WHERE symbols_fts MATCH ?`
	args := []any{"name:" + term + "*"}
	if language != "" {
		q += " AND sy.language = ?"
		args = append(args, language)
	}
	q += " ORDER BY length(sy.name) ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Symbol
	for rows.Next() {
		_, sym, err := scanSymbol(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// Search matches pattern (supporting '*' wildcards) against name first,
// then qualified as fallback, optionally scoped to language. A simple
// prefix pattern ("Handle*") goes through the symbols_fts index; anything
// else falls back to a LIKE scan.
func (s *Store) Search(pattern string, limit int, language string) ([]model.Symbol, error) {
	if ftsPrefixPattern.MatchString(pattern) {
		return s.searchPrefixFTS(pattern, limit, language)
	}
	like := strings.ReplaceAll(pattern, "*", "%")
	if !strings.Contains(like, "%") {
		like = "%" + like + "%"
	}
	args := []any{like, like}
	q := "SELECT " + symbolCols + " FROM symbols WHERE (name LIKE ? ESCAPE '\\' OR qualified LIKE ? ESCAPE '\\')"
	if language != "" {
		q += " AND language = ?"
		args = append(args, language)
	}
	q += " ORDER BY (name = ?) DESC, length(name) ASC LIMIT ?"
	args = append(args, pattern, limit)

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Symbol
	for rows.Next() {
		_, sym, err := scanSymbol(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// candidateSymbols loads every symbol (optionally scoped by language), for
// fuzzy_search's in-process edit-distance scan: SQLite has no native
// Levenshtein, so the candidate set is pulled once and scored in Go.
func (s *Store) candidateSymbols(language string) ([]model.Symbol, error) {
	q := "SELECT " + symbolCols + " FROM symbols"
	var args []any
	if language != "" {
		q += " WHERE language = ?"
		args = append(args, language)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Symbol
	for rows.Next() {
		_, sym, err := scanSymbol(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// SymbolDistance pairs a symbol with its edit distance from a fuzzy_search
// query.
type SymbolDistance struct {
	Symbol   model.Symbol
	Distance int
}

// FuzzySearch scores every candidate symbol's name against pattern by
// Levenshtein distance, keeping matches within maxDistance, sorted by
// distance ascending then name alphabetically, capped at limit.
func (s *Store) FuzzySearch(pattern string, maxDistance, limit int, language string) ([]SymbolDistance, error) {
	candidates, err := s.candidateSymbols(language)
	if err != nil {
		return nil, err
	}
	var out []SymbolDistance
	for _, sym := range candidates {
		d := levenshtein.ComputeDistance(pattern, sym.Name)
		if d == 0 || d > maxDistance {
			continue
		}
		out = append(out, SymbolDistance{Symbol: sym, Distance: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Symbol.Name < out[j].Symbol.Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FindReferences returns every reference matching name, either as a short
// or qualified form.
func (s *Store) FindReferences(name string) ([]model.Reference, error) {
	rows, err := s.db.Query("SELECT file, name, line, col, end_line, end_col FROM references_ WHERE name = ? OR name LIKE ?",
		name, "%."+name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reference
	for rows.Next() {
		var r model.Reference
		if err := rows.Scan(&r.Location.File, &r.Name, &r.Location.StartLine, &r.Location.StartCol, &r.Location.EndLine, &r.Location.EndCol); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReferencesInFile returns every reference recorded from file.
func (s *Store) ReferencesInFile(file string) ([]model.Reference, error) {
	rows, err := s.db.Query("SELECT file, name, line, col, end_line, end_col FROM references_ WHERE file = ? ORDER BY line, col", file)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reference
	for rows.Next() {
		var r model.Reference
		if err := rows.Scan(&r.Location.File, &r.Name, &r.Location.StartLine, &r.Location.StartCol, &r.Location.EndLine, &r.Location.EndCol); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SignatureHashesForFile returns qualified -> signature hash for every
// symbol declared in file, for the rebuild's interface-change diff.
func (s *Store) SignatureHashesForFile(file string) (map[string]string, error) {
	rows, err := s.db.Query("SELECT qualified, sig_hash FROM symbols WHERE file = ?", file)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var qualified, hash string
		if err := rows.Scan(&qualified, &hash); err != nil {
			return nil, err
		}
		out[qualified] = hash
	}
	return out, rows.Err()
}

// SymbolsInFile returns the symbols defined in file in source order.
func (s *Store) SymbolsInFile(file string) ([]model.Symbol, error) {
	rows, err := s.db.Query("SELECT "+symbolCols+" FROM symbols WHERE file = ? ORDER BY start_line, start_col", file)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Symbol
	for rows.Next() {
		_, sym, err := scanSymbol(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// OpensForFile returns the module paths file imports.
func (s *Store) OpensForFile(file string) ([]string, error) {
	rows, err := s.db.Query("SELECT module FROM opens WHERE file = ?", file)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, rows.Err()
}

// GetAllSymbolsOrdered returns every symbol ordered by (file, start_line).
func (s *Store) GetAllSymbolsOrdered() ([]model.Symbol, error) {
	rows, err := s.db.Query("SELECT " + symbolCols + " FROM symbols ORDER BY file, start_line")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Symbol
	for rows.Next() {
		_, sym, err := scanSymbol(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func placeholderList(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func int64sToArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
