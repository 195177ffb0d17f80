package graph

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketindex/rocketindex/internal/index"
	"github.com/rocketindex/rocketindex/internal/model"
)

func fn(qualified, file string, startLine, endLine int) model.Symbol {
	return model.Symbol{
		Name: qualified, Qualified: qualified, Kind: model.KindFunction,
		Location: model.Location{File: file, StartLine: startLine, StartCol: 1, EndLine: endLine, EndCol: 1},
		Language: "rust",
	}
}

func ref(name, file string, line int) model.Reference {
	return model.Reference{Name: name, Location: model.Location{File: file, StartLine: line, StartCol: 1, EndLine: line, EndCol: len(name) + 1}}
}

// caller_a, caller_b, and cross_file_caller all call main_function; all
// three surface at depth 1.
func TestReverseSpider_ThreeCallers(t *testing.T) {
	idx := index.New("/ws")
	idx.AddSymbol(fn("main_function", "main.rs", 1, 3))
	idx.AddSymbol(fn("caller_a", "main.rs", 10, 13))
	idx.AddSymbol(fn("caller_b", "main.rs", 20, 23))
	idx.AddSymbol(fn("cross_file_caller", "other.rs", 1, 4))

	idx.AddReference("main.rs", ref("main_function", "main.rs", 11))
	idx.AddReference("main.rs", ref("main_function", "main.rs", 21))
	idx.AddReference("other.rs", ref("main_function", "other.rs", 2))

	result, err := ReverseSpider(idx, "main_function", 1)
	require.NoError(t, err)

	var callers []string
	for _, n := range result.Nodes {
		if n.Depth == 1 {
			callers = append(callers, n.Symbol.Qualified)
		}
	}
	sort.Strings(callers)
	assert.Equal(t, []string{"caller_a", "caller_b", "cross_file_caller"}, callers)
}

func TestSpider_BreaksCycles(t *testing.T) {
	idx := index.New("/ws")
	idx.AddSymbol(fn("cycle_a", "cycle.rs", 1, 3))
	idx.AddSymbol(fn("cycle_b", "cycle.rs", 5, 7))

	idx.AddReference("cycle.rs", ref("cycle_b", "cycle.rs", 2))
	idx.AddReference("cycle.rs", ref("cycle_a", "cycle.rs", 6))

	result, err := Spider(idx, "cycle_a", 10)
	require.NoError(t, err)

	// Only two distinct nodes ever appear, no matter how deep maxDepth is.
	assert.Len(t, result.Nodes, 2)
}

func TestSpider_UnresolvedNamesCollected(t *testing.T) {
	idx := index.New("/ws")
	idx.AddSymbol(fn("entry", "a.rs", 1, 3))
	idx.AddReference("a.rs", ref("mystery_fn", "a.rs", 2))

	result, err := Spider(idx, "entry", 2)
	require.NoError(t, err)
	assert.Len(t, result.Nodes, 1)
	assert.Equal(t, []string{"mystery_fn"}, result.Unresolved)
}

func TestSpider_ShortestPathWithinDepth(t *testing.T) {
	idx := index.New("/ws")
	idx.AddSymbol(fn("a", "g.rs", 1, 3))
	idx.AddSymbol(fn("b", "g.rs", 5, 7))
	idx.AddSymbol(fn("c", "g.rs", 9, 11))
	idx.AddReference("g.rs", ref("b", "g.rs", 2))
	idx.AddReference("g.rs", ref("c", "g.rs", 6))

	result, err := Spider(idx, "a", 2)
	require.NoError(t, err)

	depths := map[string]int{}
	for _, n := range result.Nodes {
		depths[n.Symbol.Qualified] = n.Depth
	}
	assert.Equal(t, 0, depths["a"])
	assert.Equal(t, 1, depths["b"])
	assert.Equal(t, 2, depths["c"])
}
