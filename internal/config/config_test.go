package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"databases": {
			"sqlite3": {"dsn": "data/app.db"}
		},
		"providers": {
			"groq": {"model": "llama-3.1-8b-instant"}
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BasicConfig.ServerAddress != ":8000" {
		t.Fatalf("unexpected server address: %q", cfg.BasicConfig.ServerAddress)
	}
	if cfg.BasicConfig.AgentTimeoutSeconds != DefaultAgentTimeoutSecs {
		t.Fatalf("unexpected agent timeout: %d", cfg.BasicConfig.AgentTimeoutSeconds)
	}
	groq := cfg.Providers["groq"]
	if groq.BaseURL != DefaultGroqBaseURL {
		t.Fatalf("missing groq base url default: %q", groq.BaseURL)
	}
	if groq.Model != "llama-3.1-8b-instant" {
		t.Fatalf("explicit model overridden: %q", groq.Model)
	}
	if cfg.RAG.TopK != DefaultRetrievalTopK {
		t.Fatalf("unexpected top_k: %d", cfg.RAG.TopK)
	}

	// Relative sqlite paths resolve against the config file directory.
	want := filepath.Join(dir, "data/app.db")
	if got := cfg.Databases["sqlite3"].DSN; got != want {
		t.Fatalf("sqlite dsn = %q, want %q", got, want)
	}
}

func TestLoadKeepsMemoryDSN(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"databases": {"sqlite3": {"dsn": ":memory:"}}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Databases["sqlite3"].DSN; got != ":memory:" {
		t.Fatalf("memory dsn rewritten to %q", got)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Databases["sqlite3"].DSN == "" {
		t.Fatalf("expected default sqlite dsn")
	}
	if cfg.Providers["groq"].Model != DefaultGroqModel {
		t.Fatalf("unexpected groq model: %q", cfg.Providers["groq"].Model)
	}
	if cfg.Providers["embedding"].Model != DefaultEmbeddingModel {
		t.Fatalf("unexpected embedding model: %q", cfg.Providers["embedding"].Model)
	}
	if cfg.RAG.DocsDir == "" || cfg.RAG.IndexPath == "" {
		t.Fatalf("rag paths not defaulted: %+v", cfg.RAG)
	}
}
