// Package rank implements importance scoring over symbols, derived
// from file-diversity of references rather than raw reference count —
// one hot loop inflates count, ten distinct consumers inflate diversity,
// and diversity is the better importance signal.
package rank

import (
	"math"
	"sort"

	"github.com/rocketindex/rocketindex/internal/model"
	"github.com/rocketindex/rocketindex/internal/store"
)

// Default scoring weights.
const (
	WeightDiversity   = 1.0
	WeightKind        = 0.3
	WeightVisibility  = 0.1
	WeightRefsLogBase = 0.1
)

var kindWeight = map[model.SymbolKind]float64{
	model.KindModule:    5,
	model.KindClass:     4,
	model.KindInterface: 4,
	model.KindRecord:    3,
	model.KindUnion:     3,
	model.KindFunction:  2,
	model.KindType:      2,
	model.KindValue:     1,
	model.KindMember:    1,
}

var visibilityWeight = map[model.Visibility]float64{
	model.Public:   3,
	model.Internal: 2,
	model.Private:  1,
}

// Score computes the importance formula:
//
//	file_diversity*w_d + kind_weight*w_k + visibility_weight*w_v + ln(1+total_refs)*0.1
func Score(sym model.Symbol, fileDiversity, totalRefs int) float64 {
	return float64(fileDiversity)*WeightDiversity +
		kindWeight[sym.Kind]*WeightKind +
		visibilityWeight[sym.Visibility]*WeightVisibility +
		math.Log(1+float64(totalRefs))*WeightRefsLogBase
}

func toRanked(stats store.SymbolRefStats) model.RankedSymbol {
	return model.RankedSymbol{
		Symbol:        stats.Symbol,
		FileDiversity: stats.FileDiversity,
		TotalRefs:     stats.TotalRefs,
		Score:         Score(stats.Symbol, stats.FileDiversity, stats.TotalRefs),
	}
}

func byScoreThenName(out []model.RankedSymbol) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Symbol.Qualified < out[j].Symbol.Qualified
	})
}

// RankSymbols returns the top-N symbols globally by score, descending,
// monotone non-increasing down the list.
func RankSymbols(stats []store.SymbolRefStats, limit int) []model.RankedSymbol {
	out := make([]model.RankedSymbol, 0, len(stats))
	for _, st := range stats {
		out = append(out, toRanked(st))
	}
	byScoreThenName(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RankSymbolsPerFile guarantees each file gets its top-perFileLimit
// symbols before the global fileLimit cap on distinct files is applied,
// implemented over the grouped stats store.RefStatsByFile already
// produces.
func RankSymbolsPerFile(byFile map[string][]store.SymbolRefStats, perFileLimit, fileLimit int) map[string][]model.RankedSymbol {
	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)
	if fileLimit > 0 && len(files) > fileLimit {
		files = files[:fileLimit]
	}

	out := make(map[string][]model.RankedSymbol, len(files))
	for _, f := range files {
		ranked := RankSymbols(byFile[f], perFileLimit)
		out[f] = ranked
	}
	return out
}
