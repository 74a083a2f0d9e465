package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"waygen/internal/config"
)

func TestRetrieverBuildsAndReloadsIndex(t *testing.T) {
	tmp := t.TempDir()
	docsDir := filepath.Join(tmp, "docs")
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		t.Fatalf("mkdir docs: %v", err)
	}
	writeDoc(t, docsDir, "engineering.txt",
		"Software engineering careers usually start with a computer science degree. "+
			"Internships and open source contributions help a lot. "+
			"Programming interviews test algorithms and system design.")
	writeDoc(t, docsDir, "medicine.md",
		"Medical careers require years of training at a university hospital. "+
			"Nursing is a faster path into healthcare than becoming a doctor. "+
			"Residency placements depend on exam scores.")

	cfg := config.RAGConfig{
		IndexPath: filepath.Join(tmp, "index.gob"),
		DocsDir:   docsDir,
		TopK:      2,
	}
	ctx := context.Background()

	r := NewRetriever(ctx, cfg, nil)
	if !r.Available() {
		t.Fatalf("retriever should be available after build")
	}
	if _, err := os.Stat(cfg.IndexPath); err != nil {
		t.Fatalf("index not persisted: %v", err)
	}

	passages, err := r.Search(ctx, "how do programming interviews work", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(passages) != 1 {
		t.Fatalf("expected 1 passage, got %d", len(passages))
	}
	if !strings.Contains(passages[0], "Programming interviews") {
		t.Fatalf("expected engineering passage, got %q", passages[0])
	}

	// A second retriever must come up from the persisted index alone.
	if err := os.RemoveAll(docsDir); err != nil {
		t.Fatalf("remove docs: %v", err)
	}
	reloaded := NewRetriever(ctx, cfg, nil)
	if !reloaded.Available() {
		t.Fatalf("retriever should load the saved index")
	}
	passages, err = reloaded.Search(ctx, "nursing healthcare training", 0)
	if err != nil {
		t.Fatalf("Search after reload: %v", err)
	}
	if len(passages) == 0 || !strings.Contains(passages[0], "Nursing") {
		t.Fatalf("expected medicine passage first, got %v", passages)
	}
}

func TestRetrieverUnavailableWithoutDocuments(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.RAGConfig{
		IndexPath: filepath.Join(tmp, "index.gob"),
		DocsDir:   filepath.Join(tmp, "missing"),
		TopK:      2,
	}
	r := NewRetriever(context.Background(), cfg, nil)
	if r.Available() {
		t.Fatalf("retriever should be unavailable")
	}
	if _, err := r.Search(context.Background(), "anything", 2); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
