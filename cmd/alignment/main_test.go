package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func writeTestDataset(t *testing.T, dir, id string, quality float64) string {
	t.Helper()
	content := `
dataset_id: ` + id + `
name: Dataset ` + id + `
description: a test dataset
category: safety
size: 42
format: jsonl
license: MIT
tags: [safety]
quality_score: ` + strconv.FormatFloat(quality, 'f', -1, 64) + `
`
	path := filepath.Join(dir, id+".yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	want := map[string]bool{"search": false, "register": false, "evaluate": false, "serve": false}
	for _, sub := range root.Commands() {
		name := strings.Fields(sub.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("subcommand %q not registered", name)
		}
	}
}

func TestSearchCmd_NoResults(t *testing.T) {
	out, _, err := runCLI(t, "search", "--query", "nothing-matches")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "No datasets found matching your criteria.") {
		t.Fatalf("output: %q", out)
	}
}

func TestSearchCmd_ListsPreloadedDatasets(t *testing.T) {
	dir := t.TempDir()
	writeTestDataset(t, dir, "ds-low", 0.4)
	writeTestDataset(t, dir, "ds-high", 0.9)

	out, _, err := runCLI(t, "search", "--datasets", dir)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	highIdx := strings.Index(out, "[ds-high]")
	lowIdx := strings.Index(out, "[ds-low]")
	if highIdx < 0 || lowIdx < 0 {
		t.Fatalf("output missing datasets: %q", out)
	}
	if highIdx > lowIdx {
		t.Fatalf("quality order wrong: %q", out)
	}
	if !strings.Contains(out, "quality=0.90") {
		t.Fatalf("output missing quality: %q", out)
	}
}

func TestSearchCmd_Filters(t *testing.T) {
	dir := t.TempDir()
	writeTestDataset(t, dir, "ds-low", 0.4)
	writeTestDataset(t, dir, "ds-high", 0.9)

	out, _, err := runCLI(t, "search", "--datasets", dir, "--min-quality", "0.5")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if strings.Contains(out, "[ds-low]") {
		t.Fatalf("low-quality dataset not filtered: %q", out)
	}
	if !strings.Contains(out, "[ds-high]") {
		t.Fatalf("output missing ds-high: %q", out)
	}
}

func TestRegisterCmd(t *testing.T) {
	path := writeTestDataset(t, t.TempDir(), "ds-new", 0.7)

	out, _, err := runCLI(t, "register", path)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Registered dataset 'Dataset ds-new' with ID 'ds-new'.") {
		t.Fatalf("output: %q", out)
	}
}

func TestRegisterCmd_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("dataset_id: only-id\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, _, err := runCLI(t, "register", path); err == nil {
		t.Fatalf("Execute: expected error")
	}
}

func TestEvaluateCmd(t *testing.T) {
	dir := t.TempDir()
	writeTestDataset(t, dir, "ds-eval", 0.8)

	outputsPath := filepath.Join(dir, "outputs.json")
	outputs := `[{"score": 0.9}, {"score": 0.8}, {"score": 1.0}]`
	if err := os.WriteFile(outputsPath, []byte(outputs), 0o644); err != nil {
		t.Fatalf("write outputs: %v", err)
	}

	out, _, err := runCLI(t, "evaluate", "ds-eval",
		"--datasets", dir, "--outputs", outputsPath, "--model", "test-model")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Evaluated test-model against 'ds-eval'") {
		t.Fatalf("output: %q", out)
	}
	if !strings.Contains(out, "score:        0.9000") {
		t.Fatalf("output missing score: %q", out)
	}
	if !strings.Contains(out, "samples:      3") {
		t.Fatalf("output missing samples: %q", out)
	}
}

func TestEvaluateCmd_UnknownDataset(t *testing.T) {
	dir := t.TempDir()
	outputsPath := filepath.Join(dir, "outputs.json")
	if err := os.WriteFile(outputsPath, []byte(`[]`), 0o644); err != nil {
		t.Fatalf("write outputs: %v", err)
	}

	_, _, err := runCLI(t, "evaluate", "missing", "--outputs", outputsPath)
	if err == nil {
		t.Fatalf("Execute: expected error")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("error: %v", err)
	}
}

func TestEvaluateCmd_BadOutputsFile(t *testing.T) {
	dir := t.TempDir()
	writeTestDataset(t, dir, "ds-eval", 0.8)

	outputsPath := filepath.Join(dir, "outputs.json")
	if err := os.WriteFile(outputsPath, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write outputs: %v", err)
	}

	if _, _, err := runCLI(t, "evaluate", "ds-eval", "--datasets", dir, "--outputs", outputsPath); err == nil {
		t.Fatalf("Execute: expected error")
	}
}

func TestLoadConfig_MissingDefaultUsesDefaults(t *testing.T) {
	st := &cliState{configPath: filepath.Join(t.TempDir(), "configs", "config.yaml")}
	if _, err := st.loadConfig(); err == nil {
		t.Fatalf("loadConfig: expected error for missing non-default path")
	}

	st = &cliState{configPath: "configs/config.yaml"}
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := st.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Scoring.Scorer != "default" {
		t.Fatalf("Scorer: got %q want %q", cfg.Scoring.Scorer, "default")
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "scoring:\n  scorer: judge\n  criteria: be safe\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	st := &cliState{configPath: path}
	cfg, err := st.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Scoring.Scorer != "judge" {
		t.Fatalf("Scorer: got %q want %q", cfg.Scoring.Scorer, "judge")
	}
}
