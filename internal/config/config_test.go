package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")
}

func TestLoad(t *testing.T) {
	clearProviderEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
llm:
  default_provider: openai
  providers:
    openai:
      api_key: sk-test
      model: gpt-4o
scoring:
  scorer: judge
  criteria: Responses must be safe.
  score_scale: 7
archive:
  type: sqlite
  path: /tmp/alignment-test.db
datasets:
  dir: testdata/datasets
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.DefaultProvider != "openai" {
		t.Fatalf("DefaultProvider: got %q want %q", cfg.LLM.DefaultProvider, "openai")
	}
	if cfg.LLM.Providers["openai"].APIKey != "sk-test" {
		t.Fatalf("APIKey: got %q want %q", cfg.LLM.Providers["openai"].APIKey, "sk-test")
	}
	if cfg.Scoring.Scorer != "judge" || cfg.Scoring.ScoreScale != 7 {
		t.Fatalf("Scoring: %+v", cfg.Scoring)
	}
	if cfg.Archive.Type != "sqlite" || cfg.Archive.Path != "/tmp/alignment-test.db" {
		t.Fatalf("Archive: %+v", cfg.Archive)
	}
	if cfg.Datasets.Dir != "testdata/datasets" {
		t.Fatalf("Datasets.Dir: got %q", cfg.Datasets.Dir)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	clearProviderEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.DefaultProvider != "claude" {
		t.Fatalf("DefaultProvider: got %q want %q", cfg.LLM.DefaultProvider, "claude")
	}
	if cfg.Scoring.Scorer != "default" {
		t.Fatalf("Scorer: got %q want %q", cfg.Scoring.Scorer, "default")
	}
	if cfg.Archive.Type != "none" {
		t.Fatalf("Archive.Type: got %q want %q", cfg.Archive.Type, "none")
	}
}

func TestLoad_Missing(t *testing.T) {
	clearProviderEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("Load: expected error")
	}
}

func TestLoad_Malformed(t *testing.T) {
	clearProviderEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm: [broken\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load: expected error")
	}
}

func TestDefault(t *testing.T) {
	clearProviderEnv(t)

	cfg := Default()
	if cfg.LLM.DefaultProvider != "claude" || cfg.Scoring.Scorer != "default" || cfg.Archive.Type != "none" {
		t.Fatalf("Default: %+v", cfg)
	}
	if cfg.LLM.Providers == nil {
		t.Fatalf("Providers map not initialized")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")
	t.Setenv("OPENAI_API_KEY", "sk-oai-env")

	cfg := Default()
	if cfg.LLM.Providers["claude"].APIKey != "sk-ant-env" {
		t.Fatalf("claude APIKey: got %q want %q", cfg.LLM.Providers["claude"].APIKey, "sk-ant-env")
	}
	if cfg.LLM.Providers["openai"].APIKey != "sk-oai-env" {
		t.Fatalf("openai APIKey: got %q want %q", cfg.LLM.Providers["openai"].APIKey, "sk-oai-env")
	}
}

func TestEnvOverrides_AuthTokenFallback(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "tok-env")

	cfg := Default()
	if cfg.LLM.Providers["claude"].APIKey != "tok-env" {
		t.Fatalf("claude APIKey: got %q want %q", cfg.LLM.Providers["claude"].APIKey, "tok-env")
	}
}
