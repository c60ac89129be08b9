package recommend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"

	"github.com/jackzampolin/assessor/internal/catalog"
)

// ErrEmptyResult is returned when a payload parses but yields no usable items.
var ErrEmptyResult = errors.New("no valid recommendations in model response")

// ExtractionKind classifies an extraction failure.
type ExtractionKind string

const (
	KindMalformedPayload ExtractionKind = "malformed_payload"
	KindMissingField     ExtractionKind = "missing_field"
)

// ExtractionError is returned when model text cannot be turned into a payload.
type ExtractionError struct {
	Kind ExtractionKind
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extraction failed: %s", e.Kind)
	}
	return fmt.Sprintf("extraction failed: %s: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// fencedJSON matches the first ```json fenced block, tag case-insensitive.
var fencedJSON = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// candidatePayload returns the body of the first json fence, or raw itself.
func candidatePayload(raw string) string {
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}

// Extract parses model text into at most max recommendations in model order.
// Elements failing the item schema are dropped. max below 1 is treated as 1.
func Extract(raw string, max int) ([]Recommendation, error) {
	if max < 1 {
		max = 1
	}

	top, err := decodePayload(candidatePayload(raw))
	if err != nil {
		return nil, &ExtractionError{Kind: KindMalformedPayload, Err: err}
	}

	obj, ok := top.(map[string]any)
	if !ok {
		return nil, &ExtractionError{Kind: KindMissingField, Err: fmt.Errorf("payload is not an object")}
	}
	field, ok := obj["recommendations"]
	if !ok {
		return nil, &ExtractionError{Kind: KindMissingField, Err: fmt.Errorf("recommendations field is absent")}
	}
	elems, ok := field.([]any)
	if !ok {
		return nil, &ExtractionError{Kind: KindMissingField, Err: fmt.Errorf("recommendations is not an array")}
	}

	validator, err := itemValidator()
	if err != nil {
		return nil, &ExtractionError{Kind: KindMalformedPayload, Err: err}
	}

	recs := make([]Recommendation, 0, min(len(elems), max))
	for _, elem := range elems {
		if len(recs) == max {
			break
		}
		rec, ok := decodeItem(validator.Validate, elem)
		if !ok {
			continue
		}
		recs = append(recs, rec)
	}

	if len(recs) == 0 {
		return nil, ErrEmptyResult
	}
	return recs, nil
}

// decodePayload parses one JSON value, keeping numbers as json.Number so an
// out-of-range score only invalidates its own element.
func decodePayload(payload string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()
	var top any
	if err := dec.Decode(&top); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return top, nil
}

// decodeItem validates one element and converts it to a Recommendation.
func decodeItem(validate func(any) error, elem any) (Recommendation, bool) {
	if err := validate(elem); err != nil {
		return Recommendation{}, false
	}
	fields := elem.(map[string]any)
	if u, _ := fields["url"].(string); catalog.CheckURL(u) != nil {
		return Recommendation{}, false
	}
	n, _ := fields["relevance_score"].(json.Number)
	score, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || math.IsInf(score, 0) || math.IsNaN(score) {
		return Recommendation{}, false
	}
	b, err := json.Marshal(elem)
	if err != nil {
		return Recommendation{}, false
	}
	var rec Recommendation
	if err := json.Unmarshal(b, &rec); err != nil {
		return Recommendation{}, false
	}
	return rec, true
}
