package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rocketindex/rocketindex"
	"github.com/rocketindex/rocketindex/internal/project"
	"github.com/rocketindex/rocketindex/internal/query"
)

var (
	flagSymbolFile string
	flagContext    int
	flagDepth      int
	flagReverse    bool
	flagLanguage   string
	flagFuzzy      bool
	flagLimit      int
	flagDetail     string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a query against an indexed project",
}

func init() {
	queryCmd.AddCommand(findDefinitionCmd)
	queryCmd.AddCommand(findReferencesCmd)
	queryCmd.AddCommand(callersCmd)
	queryCmd.AddCommand(dependenciesCmd)
	queryCmd.AddCommand(searchCmd)
	queryCmd.AddCommand(enrichCmd)
	queryCmd.AddCommand(describeCmd)
}

// openProject registers (but does not build) the project containing, or
// rooted at, targetDir.
func openProject(targetDir string) (*rocketindex.Engine, *project.ProjectState, error) {
	repoRoot := findRepoRoot(targetDir)
	e := rocketindex.New()
	ps, err := e.Register(repoRoot)
	if err != nil {
		if err == project.ErrIndexNotFound {
			return nil, nil, fmt.Errorf("no index found under %s (run 'rocketindex index' first)", repoRoot)
		}
		return nil, nil, err
	}
	rememberProject(ps.Root)
	return e, ps, nil
}

var findDefinitionCmd = &cobra.Command{
	Use:   "find-definition <symbol>",
	Short: "Find the definition of a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ps, err := openProject(".")
		if err != nil {
			return err
		}
		result, err := e.FindDefinition(ps, args[0], flagSymbolFile)
		if err != nil {
			if _, ok := err.(*query.ErrSymbolNotFound); !ok {
				return err
			}
		}
		if flagFormat == "text" {
			fmt.Print(query.FormatCandidatesMarkdown(result.Candidates))
			return nil
		}
		return emitJSON("find_definition", result)
	},
}

func init() {
	findDefinitionCmd.Flags().StringVar(&flagSymbolFile, "file", "", "file the lookup originates from, for scoped resolution")
}

var findReferencesCmd = &cobra.Command{
	Use:   "find-references <symbol>",
	Short: "Find references to a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ps, err := openProject(".")
		if err != nil {
			return err
		}
		result, err := e.FindReferences(ps, args[0], flagContext)
		if err != nil {
			if _, ok := err.(*query.ErrSymbolNotFound); !ok {
				return err
			}
		}
		return emitJSON("find_references", result)
	},
}

func init() {
	findReferencesCmd.Flags().IntVar(&flagContext, "context", 0, "lines of surrounding context per reference")
}

var callersCmd = &cobra.Command{
	Use:   "callers <symbol>",
	Short: "Find direct callers of a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ps, err := openProject(".")
		if err != nil {
			return err
		}
		result, err := e.FindCallers(ps, args[0])
		if err != nil {
			return err
		}
		return emitJSON("find_callers", result)
	},
}

var dependenciesCmd = &cobra.Command{
	Use:   "dependencies <symbol>",
	Short: "Walk the call graph from a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ps, err := openProject(".")
		if err != nil {
			return err
		}
		result, err := e.AnalyzeDependencies(ps, args[0], flagDepth, flagReverse)
		if err != nil {
			return err
		}
		return emitJSON("analyze_dependencies", result)
	},
}

func init() {
	dependenciesCmd.Flags().IntVar(&flagDepth, "depth", 1, "maximum traversal depth")
	dependenciesCmd.Flags().BoolVar(&flagReverse, "reverse", false, "walk callers instead of callees")
}

var searchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Search symbols by name pattern or fuzzy match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ps, err := openProject(".")
		if err != nil {
			return err
		}
		result, err := e.SearchSymbols(ps, args[0], flagLanguage, flagFuzzy, flagLimit)
		if err != nil {
			return err
		}
		if flagFormat == "text" {
			fmt.Print(query.FormatCandidatesMarkdown(result.Matches))
			return nil
		}
		return emitJSON("search_symbols", result)
	},
}

func init() {
	searchCmd.Flags().StringVar(&flagLanguage, "language", "", "restrict to a single language")
	searchCmd.Flags().BoolVar(&flagFuzzy, "fuzzy", false, "match by fuzzy subsequence instead of substring")
	searchCmd.Flags().IntVar(&flagLimit, "limit", 50, "maximum matches to return")
}

var enrichCmd = &cobra.Command{
	Use:   "enrich <symbol>",
	Short: "Show a symbol's definition, snippet, blame, and direct neighbors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ps, err := openProject(".")
		if err != nil {
			return err
		}
		result, err := e.EnrichSymbol(ps, args[0])
		if err != nil {
			return err
		}
		return emitJSON("enrich_symbol", result)
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe [path]",
	Short: "Render a project map",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetDir, err := resolveTargetDir(args)
		if err != nil {
			return err
		}
		e, ps, err := openProject(targetDir)
		if err != nil {
			return err
		}
		result, err := e.DescribeProject(ps, query.DetailLevel(flagDetail))
		if err != nil {
			return err
		}
		if flagFormat == "text" {
			fmt.Print(query.FormatProjectMapMarkdown(result))
			return nil
		}
		return emitJSON("describe_project", result)
	},
}

func init() {
	describeCmd.Flags().StringVar(&flagDetail, "detail", "normal", "detail level: summary|normal|full")
}

// emitJSON writes a CLIResult envelope for command.
func emitJSON(command string, results any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(CLIResult{Command: command, Results: results})
}

// CLIResult is the top-level JSON envelope for every query command.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
}
