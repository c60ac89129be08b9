package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jackzampolin/assessor/internal/catalog"
	"github.com/jackzampolin/assessor/internal/config"
	"github.com/jackzampolin/assessor/internal/recommend"
)

func TestRecommendationsTable(t *testing.T) {
	first, _ := catalog.Default().First()
	result := recommend.Result{
		Query: "java",
		Recommendations: []recommend.Recommendation{
			{Item: first, RelevanceScore: 0.5},
		},
	}

	var buf bytes.Buffer
	RecommendationsTable(&buf, result)
	out := buf.String()

	for _, want := range []string{first.Name, "0.50", "Yes", first.URL} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	// Footers render upper-cased.
	if !strings.Contains(out, "1 RECOMMENDED") {
		t.Errorf("missing footer count:\n%s", out)
	}
}

func TestCatalogTable(t *testing.T) {
	items := catalog.Default().Items()

	var buf bytes.Buffer
	CatalogTable(&buf, items)
	out := buf.String()

	for _, item := range items {
		if !strings.Contains(out, item.Name) {
			t.Errorf("table missing %q", item.Name)
		}
	}
	if !strings.Contains(out, "15 ASSESSMENTS") {
		t.Errorf("missing footer count:\n%s", out)
	}
}

func TestFormatters(t *testing.T) {
	if YesNo(true) != "Yes" || YesNo(false) != "No" {
		t.Error("YesNo mismatch")
	}
	if Score(0.956) != "0.96" {
		t.Errorf("Score(0.956) = %q", Score(0.956))
	}
}

func TestEntriesTable(t *testing.T) {
	var buf bytes.Buffer
	EntriesTable(&buf, config.DefaultEntries())
	out := buf.String()

	for _, want := range []string{"llm.provider", "gemini", "server.port", "8000"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q", want)
		}
	}
}
