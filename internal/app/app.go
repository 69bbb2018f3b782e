// Package app wires core components together for the command surfaces.
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aumai/alignment/internal/config"
	"github.com/aumai/alignment/internal/evaluation"
	"github.com/aumai/alignment/internal/llm"
	"github.com/aumai/alignment/internal/marketplace"
)

// BuildScorer selects the scorer named in the scoring config. An empty or
// "default" name yields the clamping default scorer; "judge" puts an LLM
// provider behind it.
func BuildScorer(cfg *config.Config) (evaluation.Scorer, error) {
	if cfg == nil {
		return evaluation.DefaultScorer{}, nil
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Scoring.Scorer)) {
	case "", "default":
		return evaluation.DefaultScorer{}, nil
	case "judge", "llm_judge":
		if strings.TrimSpace(cfg.Scoring.Criteria) == "" {
			return nil, errors.New("app: judge scorer requires scoring criteria")
		}
		provider, err := llm.DefaultProviderFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return &evaluation.JudgeScorer{
			Provider:   provider,
			Criteria:   cfg.Scoring.Criteria,
			ScoreScale: cfg.Scoring.ScoreScale,
		}, nil
	default:
		return nil, fmt.Errorf("app: unknown scorer %q", cfg.Scoring.Scorer)
	}
}

// LoadRegistry builds a fresh registry for this process and preloads it from
// a dataset config directory, if one is set. The registry is volatile;
// preloading is the only way it starts non-empty.
func LoadRegistry(cfg *config.Config, overrideDir string) (*marketplace.Registry, error) {
	registry := marketplace.NewRegistry()

	dir := strings.TrimSpace(overrideDir)
	if dir == "" && cfg != nil {
		dir = strings.TrimSpace(cfg.Datasets.Dir)
	}
	if dir == "" {
		return registry, nil
	}

	datasets, err := marketplace.LoadFromDir(dir)
	if err != nil {
		return nil, err
	}
	for _, d := range datasets {
		registry.Register(*d)
	}
	return registry, nil
}
