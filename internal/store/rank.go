package store

import (
	"github.com/rocketindex/rocketindex/internal/model"
)

// SymbolRefStats is a symbol joined with its reference-usage aggregates:
// how many distinct files reference it (by short name match) and how many
// references total. internal/rank turns these into a RankedSymbol's score.
type SymbolRefStats struct {
	Symbol        model.Symbol
	FileDiversity int
	TotalRefs     int
}

type symbolRefStats = SymbolRefStats

// refStats loads, for every symbol (optionally scoped to language), the
// distinct-file and total reference counts matched against its short name.
// Two queries: the symbols, then references_ grouped by name; the counts
// are joined onto the symbols in Go, since this schema has no separate
// resolved_references table.
func (s *Store) refStats(language string) ([]symbolRefStats, error) {
	q := "SELECT " + qualifyCols("sy.") + " FROM symbols sy"
	var args []any
	if language != "" {
		q += " WHERE sy.language = ?"
		args = append(args, language)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	symbols := make([]model.Symbol, 0)
	for rows.Next() {
		_, sym, err := scanSymbol(rows.Scan)
		if err != nil {
			rows.Close()
			return nil, err
		}
		symbols = append(symbols, sym)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts, err := s.db.Query(`SELECT name, COUNT(DISTINCT file) AS diversity, COUNT(*) AS total
		FROM references_ GROUP BY name`)
	if err != nil {
		return nil, err
	}
	defer counts.Close()
	byName := make(map[string][2]int)
	for counts.Next() {
		var name string
		var diversity, total int
		if err := counts.Scan(&name, &diversity, &total); err != nil {
			return nil, err
		}
		byName[name] = [2]int{diversity, total}
	}
	if err := counts.Err(); err != nil {
		return nil, err
	}

	out := make([]symbolRefStats, 0, len(symbols))
	for _, sym := range symbols {
		c := byName[sym.Name]
		out = append(out, symbolRefStats{Symbol: sym, FileDiversity: c[0], TotalRefs: c[1]})
	}
	return out, nil
}

// RefStatsByFile groups RefStats' output by declaring file, for
// rank_symbols_per_file's window-style per-file top-K pass.
func (s *Store) RefStatsByFile(language string) (map[string][]SymbolRefStats, error) {
	all, err := s.refStats(language)
	if err != nil {
		return nil, err
	}
	byFile := make(map[string][]SymbolRefStats)
	for _, st := range all {
		byFile[st.Symbol.Location.File] = append(byFile[st.Symbol.Location.File], st)
	}
	return byFile, nil
}

// RefStats returns every symbol (optionally scoped to language) joined
// with its reference-usage aggregates.
func (s *Store) RefStats(language string) ([]SymbolRefStats, error) {
	return s.refStats(language)
}

func qualifyCols(prefix string) string {
	cols := []string{"id", "name", "qualified", "kind", "language", "visibility", "file",
		"start_line", "start_col", "end_line", "end_col", "signature", "doc", "parent"}
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += prefix + c
	}
	return out
}
