package metrics

import (
	"time"

	"github.com/jackzampolin/assessor/internal/recommend"
)

// Summary aggregates outcomes since process start.
type Summary struct {
	Count         int64            `json:"count"`
	ModelCount    int64            `json:"model_count"`
	FallbackCount int64            `json:"fallback_count"`
	Reasons       map[string]int64 `json:"fallback_reasons,omitempty"`
	TotalTime     time.Duration    `json:"total_time"`
	MaxTime       time.Duration    `json:"max_time"`
	LastAt        time.Time        `json:"last_at,omitempty"`
}

// FallbackRate is the share of requests served by the fallback.
func (s Summary) FallbackRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.FallbackCount) / float64(s.Count)
}

// AvgTime is the mean time per request.
func (s Summary) AvgTime() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.TotalTime / time.Duration(s.Count)
}

func (s *Summary) add(o recommend.Outcome, elapsed time.Duration) {
	s.Count++
	if o.Fallback() {
		s.FallbackCount++
		s.Reasons[string(o.Reason)]++
	} else {
		s.ModelCount++
	}
	s.TotalTime += elapsed
	if elapsed > s.MaxTime {
		s.MaxTime = elapsed
	}
	s.LastAt = time.Now()
}

func (s Summary) clone() Summary {
	reasons := make(map[string]int64, len(s.Reasons))
	for k, v := range s.Reasons {
		reasons[k] = v
	}
	s.Reasons = reasons
	return s
}
