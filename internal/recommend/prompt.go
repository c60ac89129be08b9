package recommend

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/jackzampolin/assessor/internal/catalog"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed prompt.tmpl
var promptTmpl string

var promptTemplate = template.Must(template.New("prompt").Parse(promptTmpl))

// SystemPrompt returns the system prompt sent with every completion.
func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// promptData is the data passed to prompt.tmpl.
type promptData struct {
	Query   string
	Catalog string
	Max     int
	Example string
}

// exampleResponse shows the model the exact shape to return.
var exampleResponse = map[string]any{
	"recommendations": []map[string]any{
		{
			"name":                 "Assessment Name",
			"url":                  "Assessment URL",
			"remote_testing":       true,
			"adaptive_irt_support": false,
			"duration":             "Duration",
			"test_type":            "Test Type",
			"relevance_score":      0.95,
		},
	},
}

// BuildPrompt renders the instruction text for one query.
// The query is embedded verbatim and the whole catalog is listed.
// max below 1 is treated as 1.
func BuildPrompt(query string, items []catalog.Item, max int) string {
	if max < 1 {
		max = 1
	}
	if items == nil {
		items = []catalog.Item{}
	}

	catalogJSON, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		// catalog.Item holds only strings and bools
		panic("recommend: marshal catalog: " + err.Error())
	}
	exampleJSON, _ := json.MarshalIndent(exampleResponse, "", "  ")

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, promptData{
		Query:   query,
		Catalog: string(catalogJSON),
		Max:     max,
		Example: string(exampleJSON),
	}); err != nil {
		panic("recommend: render prompt: " + err.Error())
	}
	return buf.String()
}
