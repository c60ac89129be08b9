package recommend

import (
	"github.com/jackzampolin/assessor/internal/catalog"
)

// Recommendation is a catalog item with a model-assigned relevance score.
type Recommendation struct {
	catalog.Item   `yaml:",inline"`
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}

// Result is the response for one query.
// Recommendations is never empty and is ordered by descending score.
type Result struct {
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
	Query           string           `json:"query" yaml:"query"`
}

// Path tells whether a result came from the model or the fallback.
type Path string

const (
	PathModel    Path = "model"
	PathFallback Path = "fallback"
)

// Reason explains why the fallback was taken.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonCompletionFailed Reason = "completion_failed"
	ReasonMalformedPayload Reason = "malformed_payload"
	ReasonMissingField     Reason = "missing_field"
	ReasonEmptyResult      Reason = "empty_result"
)

// Outcome is a Result tagged with how it was produced.
type Outcome struct {
	Result Result
	Path   Path
	Reason Reason // Empty when Path is PathModel
	Err    error  // Underlying failure when Path is PathFallback
}

// Fallback reports whether the outcome used the fallback path.
func (o Outcome) Fallback() bool {
	return o.Path == PathFallback
}
