// Package render prints recommendations and catalogs as terminal tables.
package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jackzampolin/assessor/internal/catalog"
	"github.com/jackzampolin/assessor/internal/config"
	"github.com/jackzampolin/assessor/internal/recommend"
)

// YesNo renders a boolean for display.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Score renders a relevance score with two decimals.
func Score(s float64) string {
	return fmt.Sprintf("%.2f", s)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// RecommendationsTable writes result as a numbered table.
func RecommendationsTable(w io.Writer, result recommend.Result) {
	t := newTable(w)
	t.SetTitle("Recommended Assessments")
	t.AppendHeader(table.Row{"#", "Assessment", "Relevance", "Duration", "Remote", "Adaptive/IRT", "Test Type", "URL"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})

	for i, rec := range result.Recommendations {
		t.AppendRow(table.Row{
			i + 1,
			rec.Name,
			Score(rec.RelevanceScore),
			rec.Duration,
			YesNo(rec.RemoteTesting),
			YesNo(rec.AdaptiveSupport),
			rec.Category,
			rec.URL,
		})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d recommended", len(result.Recommendations))})
	t.Render()
}

// CatalogTable writes the catalog items in order.
func CatalogTable(w io.Writer, items []catalog.Item) {
	t := newTable(w)
	t.SetTitle("Assessment Catalog")
	t.AppendHeader(table.Row{"#", "Assessment", "Duration", "Remote", "Adaptive/IRT", "Test Type", "URL"})

	for i, item := range items {
		t.AppendRow(table.Row{
			i + 1,
			item.Name,
			item.Duration,
			YesNo(item.RemoteTesting),
			YesNo(item.AdaptiveSupport),
			item.Category,
			item.URL,
		})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d assessments", len(items))})
	t.Render()
}

// EntriesTable lists configuration keys with their defaults.
func EntriesTable(w io.Writer, entries []config.Entry) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Key", "Default", "Description"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Key, fmt.Sprint(e.Value), e.Description})
	}
	t.Render()
}
