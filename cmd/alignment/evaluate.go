package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aumai/alignment/internal/app"
	"github.com/aumai/alignment/internal/archive"
	"github.com/aumai/alignment/internal/evaluation"
)

func newEvaluateCmd(st *cliState) *cobra.Command {
	var outputsPath string
	var modelName string

	cmd := &cobra.Command{
		Use:   "evaluate <dataset-id>",
		Short: "Score a file of model outputs against a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := st.loadConfig()
			if err != nil {
				return err
			}
			registry, err := st.loadRegistry(cfg)
			if err != nil {
				return err
			}
			scorer, err := app.BuildScorer(cfg)
			if err != nil {
				return err
			}

			outputs, err := loadOutputs(outputsPath)
			if err != nil {
				return err
			}

			runner := evaluation.NewRunner(registry, scorer)
			result, err := runner.Evaluate(cmd.Context(), args[0], outputs, modelName)
			if err != nil {
				return err
			}

			if arc, err := archive.Open(cfg); err != nil {
				return err
			} else if arc != nil {
				defer func() { _ = arc.Close() }()
				if err := arc.Save(cmd.Context(), result); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Evaluated %s against '%s'\n", result.ModelName, result.DatasetID)
			fmt.Fprintf(out, "  score:        %.4f\n", result.Score)
			fmt.Fprintf(out, "  mean/min/max: %.4f / %.4f / %.4f\n",
				result.Metrics["mean_score"], result.Metrics["min_score"], result.Metrics["max_score"])
			fmt.Fprintf(out, "  samples:      %d\n", int(result.Metrics["sample_count"]))
			return nil
		},
	}

	cmd.Flags().StringVar(&outputsPath, "outputs", "", "path to JSON file with model output records")
	cmd.Flags().StringVar(&modelName, "model", "", "name of the model being evaluated")
	_ = cmd.MarkFlagRequired("outputs")
	return cmd
}

func loadOutputs(path string) ([]evaluation.Output, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("evaluate: read %q: %w", path, err)
	}
	var outputs []evaluation.Output
	if err := json.Unmarshal(b, &outputs); err != nil {
		return nil, fmt.Errorf("evaluate: parse %q: %w", path, err)
	}
	return outputs, nil
}
