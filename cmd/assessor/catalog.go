package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/assessor/internal/api"
	"github.com/jackzampolin/assessor/internal/catalog"
	"github.com/jackzampolin/assessor/internal/home"
	"github.com/jackzampolin/assessor/internal/render"
)

var catalogPath string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the assessment catalog",
	Long: `Print the assessment catalog that recommendations are drawn from.

The catalog comes from --file, catalog.path in the config,
~/.assessor/catalog.yaml, or the built-in list, in that order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := catalogPath
		if path == "" {
			mgr, h, err := loadConfig(false)
			if err != nil {
				return err
			}
			path = mgr.Get().Catalog.Path
			if path == "" && h.CatalogExists() {
				path = h.CatalogPath()
			}
		}

		store, err := catalog.Open(path)
		if err != nil {
			return err
		}

		if api.IsStructuredOutput() {
			return api.Output(map[string]any{"items": store.Items()})
		}
		render.CatalogTable(os.Stdout, store.Items())
		return nil
	},
}

// catalogExportCmd writes the built-in catalog as a starting point for edits.
var catalogExportCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the built-in catalog to a file for editing",
	Args:  cobra.MaximumNArgs(1),
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
			path = h.CatalogPath()
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := catalog.WriteFile(path, catalog.Default().Items()); err != nil {
			return err
		}
		fmt.Printf("Wrote catalog to %s\n", path)
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogPath, "file", "f", "", "Catalog file to print")

	catalogCmd.AddCommand(catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
