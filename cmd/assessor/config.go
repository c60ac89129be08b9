package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/assessor/internal/api"
	"github.com/jackzampolin/assessor/internal/config"
	"github.com/jackzampolin/assessor/internal/home"
	"github.com/jackzampolin/assessor/internal/render"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Long: `Write a default config file to path, or to ~/.assessor/config.yaml.

API keys are written as ${ENV_VAR} references; set the variable in your
shell or in ~/.assessor/.env rather than pasting the key into the file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) > 0 {
			path = args[0]
		} else {
			h, err := home.New(homeDir)
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.ConfigPath()
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, _, err := loadConfig(false)
		if err != nil {
			return err
		}
		cfg := *mgr.Get()
		// ${ENV_VAR} references are shown as written, literal keys are masked
		if cfg.LLM.APIKey == "" || cfg.LLM.APIKey == config.ResolveEnvVars(cfg.LLM.APIKey) {
			if cfg.ResolvedAPIKey() != "" {
				cfg.LLM.APIKey = "<set>"
			}
		}
		if f := mgr.ConfigFile(); f != "" && !api.IsStructuredOutput() {
			fmt.Fprintf(os.Stderr, "# %s\n", f)
		}
		return api.Output(cfg)
	},
}

var configDefaultsCmd = &cobra.Command{
	Use:   "defaults [key]",
	Short: "List configuration keys and their defaults",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := config.DefaultEntries()
		if len(args) == 1 {
			e := config.GetDefault(args[0])
			if e == nil {
				return fmt.Errorf("%s: %w", args[0], config.ErrNoDefault)
			}
			entries = []config.Entry{*e}
		}
		if api.IsStructuredOutput() {
			return api.Output(entries)
		}
		render.EntriesTable(os.Stdout, entries)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configDefaultsCmd)
	rootCmd.AddCommand(configCmd)
}
