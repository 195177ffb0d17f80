package query

import (
	"path/filepath"
	"sort"

	"github.com/rocketindex/rocketindex/internal/model"
	"github.com/rocketindex/rocketindex/internal/project"
	"github.com/rocketindex/rocketindex/internal/rank"
)

// Defaults for describe_project's summary/normal caps.
const (
	summaryTopN    = 20
	normalPerFileK = 5
	normalFileCap  = 50
)

// significantKinds is what "full" detail includes: declarations worth
// surfacing in a project map, excluding bare local values/members that
// would drown out the structure.
var significantKinds = map[model.SymbolKind]bool{
	model.KindModule:    true,
	model.KindClass:     true,
	model.KindInterface: true,
	model.KindRecord:    true,
	model.KindUnion:     true,
	model.KindFunction:  true,
	model.KindType:      true,
}

// DescribeProject implements describe_project(path, detail): a ranked
// project map at summary (top-N globally), normal (top-K per file, capped
// files), or full (all significant kinds, unranked) detail.
func DescribeProject(ps *project.ProjectState, detail DetailLevel) (*ProjectMap, error) {
	if detail == "" {
		detail = DetailNormal
	}

	ps.Lock()
	defer ps.Unlock()

	out := &ProjectMap{Root: ps.Root, Detail: detail}

	switch detail {
	case DetailSummary:
		stats, err := ps.Store.RefStats("")
		if err != nil {
			return nil, err
		}
		ranked := rank.RankSymbols(stats, summaryTopN)
		byFile := make(map[string][]model.RankedSymbol)
		var order []string
		for _, r := range ranked {
			f := r.Symbol.Location.File
			if _, ok := byFile[f]; !ok {
				order = append(order, f)
			}
			byFile[f] = append(byFile[f], r)
		}
		sort.Strings(order)
		for _, f := range order {
			out.Files = append(out.Files, FileSection{Path: relTo(ps.Root, f), Symbols: byFile[f]})
		}

	case DetailFull:
		for _, f := range ps.Mem.AllFiles() {
			var syms []model.RankedSymbol
			for _, s := range ps.Mem.SymbolsInFile(f) {
				if !significantKinds[s.Kind] {
					continue
				}
				syms = append(syms, model.RankedSymbol{Symbol: s})
			}
			if len(syms) > 0 {
				out.Files = append(out.Files, FileSection{Path: relTo(ps.Root, f), Symbols: syms})
			}
		}

	default: // DetailNormal
		byFile, err := ps.Store.RefStatsByFile("")
		if err != nil {
			return nil, err
		}
		rankedByFile := rank.RankSymbolsPerFile(byFile, normalPerFileK, normalFileCap)
		files := make([]string, 0, len(rankedByFile))
		for f := range rankedByFile {
			files = append(files, f)
		}
		sort.Strings(files)
		for _, f := range files {
			out.Files = append(out.Files, FileSection{Path: relTo(ps.Root, f), Symbols: rankedByFile[f]})
		}
	}

	return out, nil
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
