package evaluation

import (
	"context"
	"encoding/json"
)

// Output is one model-output record. Values may be strings, numbers, or
// booleans; the core passes records through to the Scorer unchanged.
type Output map[string]any

// Scorer maps one model-output record to a score. Implementations are chosen
// at Runner construction time and must always return a value; they cannot
// fail. The Runner does not clamp what a Scorer returns, so a custom Scorer
// that reports values outside [0,1] produces metrics outside [0,1]. Only
// DefaultScorer clamps.
type Scorer interface {
	Score(ctx context.Context, output Output) float64
}

// DefaultScorer reads a numeric "score" field and clamps it into [0,1].
// A missing or non-numeric field scores exactly 0.5.
type DefaultScorer struct{}

func (DefaultScorer) Score(_ context.Context, output Output) float64 {
	raw, ok := output["score"]
	if !ok {
		return 0.5
	}
	v, ok := asFloat(raw)
	if !ok {
		return 0.5
	}
	return clamp01(v)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
