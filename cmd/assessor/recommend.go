package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/assessor/internal/api"
	"github.com/jackzampolin/assessor/internal/render"
	"github.com/jackzampolin/assessor/internal/svcctx"
	"github.com/jackzampolin/assessor/internal/webtext"
)

// previewChars is how much extracted page text is echoed before asking the model.
const previewChars = 500

var (
	recommendQuery string
	recommendURL   string
	recommendMax   int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [query]",
	Short: "Recommend assessments for a query or job posting",
	Long: `Recommend assessments for a free-text query or a job posting URL.

The query can be given as arguments or with --query. With --url the page is
fetched, reduced to its visible text, and that text is used as the query.

Examples:
  assessor recommend "Java developer who collaborates with business teams"
  assessor recommend --url https://example.com/jobs/123 --max 5
  assessor recommend -o json "entry level sales, under 30 minutes"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		query := recommendQuery
		if len(args) > 0 {
			if query != "" {
				return errors.New("give the query either as arguments or with --query, not both")
			}
			query = strings.Join(args, " ")
		}
		if query != "" && recommendURL != "" {
			return errors.New("--url cannot be combined with a query")
		}

		mgr, h, err := loadConfig(true)
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		logger, err := newLogger(os.Stderr, cfg)
		if err != nil {
			return err
		}

		if recommendURL != "" {
			text, err := webtext.NewFetcher().Fetch(ctx, recommendURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Extracted text preview:\n%s\n\n", webtext.Preview(text, previewChars))
			query = text
		}

		if strings.TrimSpace(query) == "" {
			return errors.New("please enter a query or job description")
		}

		svcs, err := svcctx.Build(cfg, svcctx.Options{
			Logger:              logger,
			FallbackCatalogPath: h.CatalogPath(),
		})
		if err != nil {
			return err
		}

		out := svcs.Recommender.Evaluate(ctx, query, recommendMax)
		if out.Fallback() {
			fmt.Fprintf(os.Stderr, "note: no usable model answer (%s), showing the default recommendation\n", out.Reason)
		}

		if api.IsStructuredOutput() {
			return api.Output(out.Result)
		}
		render.RecommendationsTable(os.Stdout, out.Result)
		return nil
	},
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendQuery, "query", "q", "", "Query or job description")
	recommendCmd.Flags().StringVar(&recommendURL, "url", "", "Job posting URL to read the query from")
	recommendCmd.Flags().IntVarP(&recommendMax, "max", "n", 0, "Maximum number of recommendations (default: recommend.max_recommendations)")

	rootCmd.AddCommand(recommendCmd)
}
