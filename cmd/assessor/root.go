package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/assessor/internal/api"
	"github.com/jackzampolin/assessor/internal/config"
	"github.com/jackzampolin/assessor/internal/home"
	"github.com/jackzampolin/assessor/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "assessor",
	Short: "Recommend assessments for a job description using an LLM",
	Long: `Assessor recommends assessments from a fixed catalog for a free-text
query or job description. The matching is delegated to a language model;
when the model fails or answers with something unusable, a deterministic
single-item fallback is returned instead.

Get started:
  assessor config init                 # Write ~/.assessor/config.yaml
  export GEMINI_API_KEY=...            # Or put it in ~/.assessor/.env
  assessor recommend "Java developer, 40 minutes max"
  assessor serve                       # HTTP API and web form on :8000`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.assessor/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "assessor home directory (default: ~/.assessor)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "", "output format: yaml or json (default: table where available, else yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (default: log.level from config)",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the home directory, loads dotenv files and the config
// file. With validate set, range errors and a missing credential are fatal.
func loadConfig(validate bool) (*config.Manager, *home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}

	// Shell variables win over .env, and .env.local over ~/.assessor/.env
	if err := config.LoadDotEnv(".env.local", ".env", h.EnvPath()); err != nil {
		return nil, nil, err
	}

	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, err
	}
	if validate {
		if err := mgr.Get().Validate(); err != nil {
			return nil, nil, err
		}
	}
	return mgr, h, nil
}

// newLogger builds the process logger. The --log-level flag beats log.level.
func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
