package cli

import (
	"fmt"
	"os"

	"atomic-checklist/internal/config"
	"atomic-checklist/internal/format"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage checklist.yml",
	}
	cmd.AddCommand(newConfigInitCmd(app))
	cmd.AddCommand(newConfigShowCmd(app))
	return cmd
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.ConfigPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return writeErr(cmd, err)
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return writeErr(cmd, fmt.Errorf("config already exists: %s (use --force to overwrite)", path))
			}

			cfg := config.Default()
			if err := cfg.Save(path); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{
				Data:  map[string]any{"path": path, "config": cfg},
				Hints: []string{"checklist config show"},
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file (the old one is kept as .bak)")
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (file, env and flags)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			_, statErr := os.Stat(path)
			return writeOut(cmd, app, format.Envelope{
				Data: cfg,
				Meta: map[string]any{"path": path, "fileExists": statErr == nil},
			})
		},
	}
}
