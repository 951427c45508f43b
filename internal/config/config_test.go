package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Input.EdgesFile != "edges.csv" {
		t.Errorf("expected default edges file, got %q", cfg.Input.EdgesFile)
	}
	if cfg.Input.Source != "csv" {
		t.Errorf("expected csv source, got %q", cfg.Input.Source)
	}
	if cfg.Query.Source != "SPIDER-MAN/PETER PARKER" || cfg.Query.Target != "STACY, JILL" {
		t.Errorf("unexpected default query pair %q -> %q", cfg.Query.Source, cfg.Query.Target)
	}
	if cfg.Query.TopK != 5 {
		t.Errorf("expected top 5, got %d", cfg.Query.TopK)
	}
	if !cfg.Centrality.Normalized || cfg.Centrality.Endpoints {
		t.Errorf("unexpected centrality flags %+v", cfg.Centrality)
	}
	if cfg.Centrality.ParallelThreshold != 100 {
		t.Errorf("expected parallel threshold 100, got %d", cfg.Centrality.ParallelThreshold)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EDGES_FILE", "heroes.csv")
	t.Setenv("QUERY_SOURCE", "IRON MAN/TONY STARK")
	t.Setenv("TOP_K", "10")
	t.Setenv("CENTRALITY_SAMPLE_SIZE", "250")
	t.Setenv("CENTRALITY_ENDPOINTS", "true")
	t.Setenv("CENTRALITY_SEED", "7")
	t.Setenv("OUTPUT_FORMAT", "json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Input.EdgesFile != "heroes.csv" {
		t.Errorf("expected heroes.csv, got %q", cfg.Input.EdgesFile)
	}
	if cfg.Query.Source != "IRON MAN/TONY STARK" {
		t.Errorf("unexpected query source %q", cfg.Query.Source)
	}
	if cfg.Query.TopK != 10 {
		t.Errorf("expected top 10, got %d", cfg.Query.TopK)
	}
	if cfg.Centrality.SampleSize != 250 || !cfg.Centrality.Endpoints || cfg.Centrality.Seed != 7 {
		t.Errorf("unexpected centrality config %+v", cfg.Centrality)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected json output, got %q", cfg.Output.Format)
	}
}

func TestLoad_YAMLFileWithEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
input:
  edges_file: data/edges.csv
query:
  source: THOR/DR. DONALD BLAKE
  target: HULK/DR. ROBERT BRUC
  top_k: 3
centrality:
  sample_size: 50
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("QUERY_TARGET", "WASP/JANET VAN DYNE")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Input.EdgesFile != "data/edges.csv" {
		t.Errorf("expected file from yaml, got %q", cfg.Input.EdgesFile)
	}
	if cfg.Query.Source != "THOR/DR. DONALD BLAKE" {
		t.Errorf("expected source from yaml, got %q", cfg.Query.Source)
	}
	if cfg.Query.Target != "WASP/JANET VAN DYNE" {
		t.Errorf("expected env to win over yaml, got %q", cfg.Query.Target)
	}
	if cfg.Query.TopK != 3 || cfg.Centrality.SampleSize != 50 || cfg.Logging.Level != "debug" {
		t.Errorf("yaml values not applied: %+v", cfg)
	}
	if !cfg.Centrality.Normalized {
		t.Error("defaults missing from yaml should be preserved")
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"zero top k":          {"TOP_K": "0"},
		"bad int":             {"TOP_K": "five"},
		"bad bool":            {"CENTRALITY_NORMALIZED": "maybe"},
		"unknown source":      {"EDGE_SOURCE": "s3"},
		"unknown format":      {"OUTPUT_FORMAT": "xml"},
		"neo4j without uri":   {"EDGE_SOURCE": "neo4j"},
		"negative sample cap": {"CENTRALITY_SAMPLE_SIZE": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Fatalf("expected error for %v", env)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config file") {
		t.Fatalf("expected read error, got %v", err)
	}
}
