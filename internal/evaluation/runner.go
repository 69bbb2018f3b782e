package evaluation

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/aumai/alignment/internal/marketplace"
)

// DefaultModelName is recorded when a caller does not name the model.
const DefaultModelName = "unknown"

// Result is the persisted outcome of one Evaluate call. Score is the
// arithmetic mean of the per-sample scores rounded to 4 decimal places;
// Metrics carries the unrounded mean, min, max, and the sample count.
type Result struct {
	DatasetID   string             `json:"dataset_id"`
	ModelName   string             `json:"model_name"`
	Score       float64            `json:"score"`
	Metrics     map[string]float64 `json:"metrics"`
	EvaluatedAt time.Time          `json:"evaluated_at"`
}

// Runner scores batches of model outputs against registered datasets and
// keeps an append-only, per-dataset result history. The history is volatile,
// like the registry it reads from. Safe for concurrent use; concurrent
// Evaluate calls each append exactly one result, in completion order.
type Runner struct {
	registry *marketplace.Registry
	scorer   Scorer

	mu      sync.Mutex
	results map[string][]Result
}

// NewRunner binds a runner to a registry. A nil scorer selects DefaultScorer.
func NewRunner(registry *marketplace.Registry, scorer Scorer) *Runner {
	if scorer == nil {
		scorer = DefaultScorer{}
	}
	return &Runner{
		registry: registry,
		scorer:   scorer,
		results:  make(map[string][]Result),
	}
}

// Evaluate scores outputs against the dataset, in input order, and records
// the aggregate result. An unknown dataset id fails with the registry's
// *marketplace.NotFoundError before anything is scored or recorded.
func (r *Runner) Evaluate(ctx context.Context, datasetID string, outputs []Output, modelName string) (*Result, error) {
	if _, err := r.registry.Get(datasetID); err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = DefaultModelName
	}

	scores := make([]float64, 0, len(outputs))
	for _, output := range outputs {
		scores = append(scores, r.scorer.Score(ctx, output))
	}

	var mean, minScore, maxScore float64
	if len(scores) > 0 {
		minScore = scores[0]
		maxScore = scores[0]
		sum := 0.0
		for _, s := range scores {
			sum += s
			if s < minScore {
				minScore = s
			}
			if s > maxScore {
				maxScore = s
			}
		}
		mean = sum / float64(len(scores))
	}

	result := Result{
		DatasetID: datasetID,
		ModelName: modelName,
		Score:     round4(mean),
		Metrics: map[string]float64{
			"mean_score":   mean,
			"min_score":    minScore,
			"max_score":    maxScore,
			"sample_count": float64(len(scores)),
		},
		EvaluatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	if r.results == nil {
		r.results = make(map[string][]Result)
	}
	r.results[datasetID] = append(r.results[datasetID], result)
	r.mu.Unlock()

	return &result, nil
}

// Results returns every recorded result for the dataset id, in the order the
// Evaluate calls completed. An id with no history yields an empty slice.
func (r *Runner) Results(datasetID string) []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	history := r.results[datasetID]
	out := make([]Result, len(history))
	copy(out, history)
	return out
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
