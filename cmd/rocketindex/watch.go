package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rocketindex/rocketindex"
	"github.com/rocketindex/rocketindex/internal/project"
	"github.com/rocketindex/rocketindex/internal/watch"
)

var flagDebounceMs int

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Rebuild the index automatically as files change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&flagDebounceMs, "debounce-ms", 200, "milliseconds to batch filesystem events before rebuilding")
}

func runWatch(cmd *cobra.Command, args []string) error {
	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}
	repoRoot := findRepoRoot(targetDir)

	lock, err := project.AcquireWatchLock(repoRoot)
	if err != nil {
		return fmt.Errorf("acquiring watch lock: %w", err)
	}
	defer lock.Release()

	e := rocketindex.New()
	ps, err := e.Register(repoRoot)
	if err != nil {
		if err != project.ErrIndexNotFound {
			return err
		}
		ps, err = e.Build(context.Background(), repoRoot, false)
		if err != nil {
			return fmt.Errorf("building initial index: %w", err)
		}
	}
	rememberProject(ps.Root)

	notifier, err := watch.NewFSNotifyNotifier(watch.Options{
		Root:       repoRoot,
		DebounceMs: flagDebounceMs,
	})
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer notifier.Close()

	changes, err := notifier.Start()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	printUpdateNotification()
	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", repoRoot)
	for {
		select {
		case batch, ok := <-changes:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "%d change(s) detected, rebuilding\n", len(batch))
			if err := e.Rebuild(context.Background(), ps); err != nil {
				fmt.Fprintf(os.Stderr, "rebuild failed: %s\n", err)
			}
		case <-sigCh:
			return nil
		}
	}
}
