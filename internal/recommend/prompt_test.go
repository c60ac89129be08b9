package recommend

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jackzampolin/assessor/internal/catalog"
)

func TestBuildPrompt(t *testing.T) {
	items := catalog.Default().Items()
	query := `Hiring a "senior" Java developer <remote>`

	p := BuildPrompt(query, items, 5)

	t.Run("query verbatim", func(t *testing.T) {
		if !strings.Contains(p, query) {
			t.Error("prompt does not contain the query verbatim")
		}
	})

	t.Run("every catalog item", func(t *testing.T) {
		for _, item := range items {
			if !strings.Contains(p, item.Name) || !strings.Contains(p, item.URL) {
				t.Errorf("prompt missing catalog item %q", item.Name)
			}
		}
		catalogJSON, _ := json.MarshalIndent(items, "", "  ")
		if !strings.Contains(p, string(catalogJSON)) {
			t.Error("prompt does not embed the catalog serialization")
		}
	})

	t.Run("bounds and ordering", func(t *testing.T) {
		if !strings.Contains(p, "at most 5 assessments (minimum 1)") {
			t.Error("prompt does not state the bound")
		}
		if !strings.Contains(p, "descending order") {
			t.Error("prompt does not state the ordering")
		}
		if !strings.Contains(p, "Only include the JSON") {
			t.Error("prompt does not ask for JSON only")
		}
	})

	t.Run("schema fields", func(t *testing.T) {
		for _, field := range []string{"recommendations", "name", "url", "remote_testing", "adaptive_irt_support", "duration", "test_type", "relevance_score"} {
			if !strings.Contains(p, `"`+field+`"`) {
				t.Errorf("prompt missing schema field %q", field)
			}
		}
	})

	t.Run("max clamped to one", func(t *testing.T) {
		if !strings.Contains(BuildPrompt("q", items, 0), "at most 1 assessments") {
			t.Error("max 0 should render as 1")
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		if BuildPrompt(query, items, 5) != p {
			t.Error("BuildPrompt is not deterministic")
		}
	})
}

func TestSystemPrompt(t *testing.T) {
	if SystemPrompt() == "" {
		t.Error("SystemPrompt() is empty")
	}
}

func TestResponseSchema(t *testing.T) {
	if _, err := compileSchema("response.json", ResponseSchema()); err != nil {
		t.Fatalf("response schema does not compile: %v", err)
	}
	if _, err := itemValidator(); err != nil {
		t.Fatalf("item schema does not compile: %v", err)
	}
}
