package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rocketindex/rocketindex"
)

var flagForce bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Build or rebuild a project's index",
	Long:  "Discovers source files under the repository root containing path (the nearest ancestor with a .git directory, or path itself if there is none), parses them, and writes the resulting symbols/references/imports to the persistent and in-memory index.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "discard the existing index and rebuild from scratch")
}

func runIndex(cmd *cobra.Command, args []string) error {
	runID := uuid.New().String()
	start := time.Now()

	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}
	repoRoot := findRepoRoot(targetDir)

	e := rocketindex.New()
	ctx := context.Background()

	if !flagForce {
		if ps, err := e.Register(repoRoot); err == nil {
			if err := e.Rebuild(ctx, ps); err != nil {
				return fmt.Errorf("rebuilding: %w", err)
			}
			rememberProject(ps.Root)
			fmt.Fprintf(os.Stderr, "[%s] Indexed %s in %s\n", runID[:8], targetDir, time.Since(start).Round(time.Millisecond))
			fmt.Fprintf(os.Stderr, "Database: %s\n", resolveDBPath(repoRoot))
			return nil
		}
	}

	ps, err := e.Build(ctx, repoRoot, flagForce)
	if err != nil {
		return fmt.Errorf("building: %w", err)
	}
	rememberProject(ps.Root)

	fmt.Fprintf(os.Stderr, "[%s] Indexed %s in %s\n", runID[:8], targetDir, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Database: %s\n", resolveDBPath(repoRoot))
	return nil
}
