package recommend

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

const javaItem = `{"name": "Java Programming Test", "url": "https://www.shl.com/solutions/products/java-programming/", "remote_testing": true, "adaptive_irt_support": false, "duration": "40 minutes", "test_type": "Technical Skills", "relevance_score": 0.9}`

func itemJSON(name string, score float64) string {
	return fmt.Sprintf(`{"name": %q, "url": "https://example.com/%d", "remote_testing": true, "adaptive_irt_support": false, "duration": "10 minutes", "test_type": "Other", "relevance_score": %v}`,
		name, int(score*100), score)
}

func TestExtract(t *testing.T) {
	t.Run("fenced block", func(t *testing.T) {
		raw := "Here you go:\n```json\n{\"recommendations\": [" + javaItem + "]}\n```\nThanks!"

		recs, err := Extract(raw, 5)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("got %d recommendations, want 1", len(recs))
		}
		r := recs[0]
		if r.Name != "Java Programming Test" || r.URL != "https://www.shl.com/solutions/products/java-programming/" ||
			!r.RemoteTesting || r.AdaptiveSupport || r.Duration != "40 minutes" ||
			r.Category != "Technical Skills" || r.RelevanceScore != 0.9 {
			t.Errorf("item changed during extraction: %+v", r)
		}
	})

	t.Run("fence tag is case-insensitive", func(t *testing.T) {
		raw := "```JSON\n{\"recommendations\": [" + javaItem + "]}\n```"
		if _, err := Extract(raw, 5); err != nil {
			t.Errorf("Extract() error = %v", err)
		}
	})

	t.Run("bare payload", func(t *testing.T) {
		raw := `{"recommendations": [` + javaItem + `]}`
		if _, err := Extract(raw, 5); err != nil {
			t.Errorf("Extract() error = %v", err)
		}
	})

	t.Run("first fence wins", func(t *testing.T) {
		raw := "```json\n{\"recommendations\": [" + itemJSON("A", 0.1) + "]}\n```\n```json\n{\"recommendations\": [" + itemJSON("B", 0.2) + "]}\n```"
		recs, err := Extract(raw, 5)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if recs[0].Name != "A" {
			t.Errorf("got %q, want first fenced block", recs[0].Name)
		}
	})

	t.Run("truncates in model order", func(t *testing.T) {
		var parts []string
		for i := 0; i < 15; i++ {
			parts = append(parts, itemJSON(fmt.Sprintf("item-%02d", i), 0.5))
		}
		raw := `{"recommendations": [` + strings.Join(parts, ",") + `]}`

		recs, err := Extract(raw, 10)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if len(recs) != 10 {
			t.Fatalf("got %d, want 10", len(recs))
		}
		for i, r := range recs {
			if want := fmt.Sprintf("item-%02d", i); r.Name != want {
				t.Errorf("recs[%d] = %q, want %q", i, r.Name, want)
			}
		}
	})

	t.Run("drops invalid items", func(t *testing.T) {
		raw := `{"recommendations": [
			{"name": "no score", "url": "u", "remote_testing": true, "adaptive_irt_support": true, "duration": "d", "test_type": "t"},
			{"name": "string score", "url": "u", "remote_testing": true, "adaptive_irt_support": true, "duration": "d", "test_type": "t", "relevance_score": "0.9"},
			"not an object",
			` + itemJSON("good", 0.7) + `
		]}`

		recs, err := Extract(raw, 10)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if len(recs) != 1 || recs[0].Name != "good" {
			t.Errorf("got %+v, want only the valid item", recs)
		}
	})

	t.Run("drops items without an absolute http url", func(t *testing.T) {
		bad := func(url string) string {
			return fmt.Sprintf(`{"name": "bad", "url": %q, "remote_testing": true, "adaptive_irt_support": true, "duration": "d", "test_type": "t", "relevance_score": 0.9}`, url)
		}
		for _, u := range []string{"u", "/relative/path", "javascript:alert(document.cookie)", "ftp://example.com/x", "https://"} {
			t.Run(u, func(t *testing.T) {
				raw := `{"recommendations": [` + bad(u) + `,` + itemJSON("good", 0.4) + `]}`
				recs, err := Extract(raw, 10)
				if err != nil {
					t.Fatalf("Extract() error = %v", err)
				}
				if len(recs) != 1 || recs[0].Name != "good" {
					t.Errorf("got %+v, want only the http item", recs)
				}
			})
		}
	})

	t.Run("out of range score drops only its item", func(t *testing.T) {
		huge := `{"name": "huge", "url": "https://example.com/h", "remote_testing": true, "adaptive_irt_support": true, "duration": "d", "test_type": "t", "relevance_score": 1e400}`
		raw := `{"recommendations": [` + javaItem + `,` + huge + `]}`

		recs, err := Extract(raw, 10)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if len(recs) != 1 || recs[0].Name != "Java Programming Test" || recs[0].RelevanceScore != 0.9 {
			t.Errorf("got %+v, want only the java item", recs)
		}
	})

	t.Run("max below one", func(t *testing.T) {
		raw := `{"recommendations": [` + itemJSON("a", 0.2) + `,` + itemJSON("b", 0.1) + `]}`
		recs, err := Extract(raw, 0)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if len(recs) != 1 {
			t.Errorf("got %d, want 1", len(recs))
		}
	})
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind ExtractionKind
		wantErr  error
	}{
		{name: "invalid json", raw: "I recommend the Java test.", wantKind: KindMalformedPayload},
		{name: "empty text", raw: "", wantKind: KindMalformedPayload},
		{name: "trailing data", raw: `{"recommendations": []} {"recommendations": []}`, wantKind: KindMalformedPayload},
		{name: "unterminated fence", raw: "```json\n{\"recommendations\": [", wantKind: KindMalformedPayload},
		{name: "top-level array", raw: `[` + javaItem + `]`, wantKind: KindMissingField},
		{name: "missing field", raw: `{"results": []}`, wantKind: KindMissingField},
		{name: "field not array", raw: `{"recommendations": {"name": "x"}}`, wantKind: KindMissingField},
		{name: "empty array", raw: `{"recommendations": []}`, wantErr: ErrEmptyResult},
		{name: "all invalid", raw: `{"recommendations": [{"name": "x"}]}`, wantErr: ErrEmptyResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := Extract(tt.raw, 10)
			if err == nil {
				t.Fatalf("Extract() returned %+v, want error", recs)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				var extErr *ExtractionError
				if errors.As(err, &extErr) {
					t.Errorf("empty result should not be an ExtractionError: %v", err)
				}
				return
			}
			var extErr *ExtractionError
			if !errors.As(err, &extErr) {
				t.Fatalf("error = %v, want *ExtractionError", err)
			}
			if extErr.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", extErr.Kind, tt.wantKind)
			}
		})
	}
}

func TestExtract_NeverPanics(t *testing.T) {
	inputs := []string{
		"```json```",
		"```json\n\n```",
		"null",
		"42",
		`{"recommendations": null}`,
		`{"recommendations": [null, 1, true, []]}`,
		"\x00\xff\xfe",
		strings.Repeat("{", 10000),
	}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Extract(%.20q) panicked: %v", in, r)
				}
			}()
			Extract(in, 10)
		}()
	}
}
