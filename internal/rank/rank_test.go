package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rocketindex/rocketindex/internal/model"
	"github.com/rocketindex/rocketindex/internal/store"
)

func TestRankSymbols_LimitAndMonotoneScore(t *testing.T) {
	stats := []store.SymbolRefStats{
		{Symbol: model.Symbol{Qualified: "pkg.Hot", Kind: model.KindModule, Visibility: model.Public}, FileDiversity: 10, TotalRefs: 50},
		{Symbol: model.Symbol{Qualified: "pkg.Warm", Kind: model.KindFunction, Visibility: model.Public}, FileDiversity: 3, TotalRefs: 5},
		{Symbol: model.Symbol{Qualified: "pkg.Cold", Kind: model.KindValue, Visibility: model.Private}, FileDiversity: 0, TotalRefs: 0},
	}

	ranked := RankSymbols(stats, 2)
	assert.Len(t, ranked, 2)
	assert.Equal(t, "pkg.Hot", ranked[0].Symbol.Qualified)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
}

func TestRankSymbolsPerFile_CapsFilesAndPerFile(t *testing.T) {
	byFile := map[string][]store.SymbolRefStats{
		"a.go": {
			{Symbol: model.Symbol{Qualified: "a.One", Kind: model.KindFunction, Visibility: model.Public}, FileDiversity: 2},
			{Symbol: model.Symbol{Qualified: "a.Two", Kind: model.KindFunction, Visibility: model.Public}, FileDiversity: 1},
		},
		"b.go": {
			{Symbol: model.Symbol{Qualified: "b.One", Kind: model.KindFunction, Visibility: model.Public}, FileDiversity: 5},
		},
	}

	out := RankSymbolsPerFile(byFile, 1, 1)
	assert.Len(t, out, 1)
	for _, ranked := range out {
		assert.Len(t, ranked, 1)
	}
}

func TestScore_DiversityWeighsMoreThanRawCount(t *testing.T) {
	sym := model.Symbol{Kind: model.KindFunction, Visibility: model.Public}
	hotLoop := Score(sym, 1, 1000) // one file, many refs
	diverse := Score(sym, 10, 10)  // ten files, few refs each

	assert.Greater(t, diverse, hotLoop)
}
