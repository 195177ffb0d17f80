package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	rkconfig "github.com/rocketindex/rocketindex/internal/config"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List and manage remembered project roots",
}

func init() {
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsAddCmd)
}

// rememberProject records root in mcp.json's projects list, so it is
// remembered across restarts. Best-effort: a read-only or absent config
// directory never fails the command that indexed/registered the project.
func rememberProject(root string) {
	dir, err := rkconfig.Dir()
	if err != nil {
		return
	}
	fs := afero.NewOsFs()
	cfg, err := rkconfig.Load(fs, dir)
	if err != nil {
		return
	}
	before := len(cfg.Projects)
	cfg.AddProject(root)
	if len(cfg.Projects) == before {
		return
	}
	_ = rkconfig.Save(fs, dir, cfg)
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered project roots from mcp.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := rkconfig.Dir()
		if err != nil {
			return err
		}
		cfg, err := rkconfig.Load(afero.NewOsFs(), dir)
		if err != nil {
			return err
		}
		if flagFormat == "text" {
			for _, p := range cfg.Projects {
				fmt.Println(p)
			}
			return nil
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}

var projectsAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Remember a project root in mcp.json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := rkconfig.Dir()
		if err != nil {
			return err
		}
		fs := afero.NewOsFs()
		cfg, err := rkconfig.Load(fs, dir)
		if err != nil {
			return err
		}
		root, err := resolveTargetDir(args)
		if err != nil {
			return err
		}
		cfg.AddProject(root)
		return rkconfig.Save(fs, dir, cfg)
	},
}
