package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jackzampolin/assessor/internal/recommend"
)

func modelOutcome(n int) recommend.Outcome {
	return recommend.Outcome{
		Result: recommend.Result{Recommendations: make([]recommend.Recommendation, n)},
		Path:   recommend.PathModel,
	}
}

func fallbackOutcome(reason recommend.Reason) recommend.Outcome {
	return recommend.Outcome{
		Result: recommend.Result{Recommendations: make([]recommend.Recommendation, 1)},
		Path:   recommend.PathFallback,
		Reason: reason,
	}
}

func TestRecorder_Observe(t *testing.T) {
	r := NewRecorder()

	r.Observe(modelOutcome(3), 100*time.Millisecond)
	r.Observe(modelOutcome(5), 300*time.Millisecond)
	r.Observe(fallbackOutcome(recommend.ReasonCompletionFailed), 50*time.Millisecond)

	if got := testutil.ToFloat64(r.recommendations.WithLabelValues("model")); got != 2 {
		t.Errorf("model count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.recommendations.WithLabelValues("fallback")); got != 1 {
		t.Errorf("fallback count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.fallbacks.WithLabelValues("completion_failed")); got != 1 {
		t.Errorf("completion_failed count = %v, want 1", got)
	}

	s := r.Summary()
	if s.Count != 3 || s.ModelCount != 2 || s.FallbackCount != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.Reasons["completion_failed"] != 1 {
		t.Errorf("Reasons = %v", s.Reasons)
	}
	if s.MaxTime != 300*time.Millisecond {
		t.Errorf("MaxTime = %v", s.MaxTime)
	}
	if s.AvgTime() != 150*time.Millisecond {
		t.Errorf("AvgTime() = %v", s.AvgTime())
	}
	if rate := s.FallbackRate(); rate < 0.33 || rate > 0.34 {
		t.Errorf("FallbackRate() = %v", rate)
	}
}

func TestRecorder_SummaryIsSnapshot(t *testing.T) {
	r := NewRecorder()
	r.Observe(fallbackOutcome(recommend.ReasonEmptyResult), time.Millisecond)

	s := r.Summary()
	s.Reasons["empty_result"] = 99

	if r.Summary().Reasons["empty_result"] != 1 {
		t.Error("mutating a snapshot changed the recorder")
	}
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.Observe(modelOutcome(2), 10*time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`assessor_recommendations_total{path="model"} 1`,
		"assessor_recommendation_duration_seconds",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				r.Observe(modelOutcome(1), time.Millisecond)
			} else {
				r.Observe(fallbackOutcome(recommend.ReasonMalformedPayload), time.Millisecond)
			}
		}(i)
	}
	wg.Wait()

	if got := r.Summary().Count; got != 50 {
		t.Errorf("Count = %d, want 50", got)
	}
}
