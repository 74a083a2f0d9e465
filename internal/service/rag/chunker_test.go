package rag

import (
	"strings"
	"testing"
)

func TestChunkSplitsWithOverlap(t *testing.T) {
	ck := newChunker(2, 1)
	text := "One. Two. Three. Four."
	chunks := ck.Chunk("doc", text)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %+v", len(chunks), chunks)
	}
	want := []string{"One. Two.", "Two. Three.", "Three. Four."}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i].Text, w)
		}
		if chunks[i].DocID != "doc" || chunks[i].Index != i {
			t.Fatalf("unexpected chunk metadata: %+v", chunks[i])
		}
	}
}

func TestChunkTextWithoutSentenceMarkers(t *testing.T) {
	ck := newChunker(6, 1)
	chunks := ck.Chunk("doc", "just a fragment with no punctuation")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "just a fragment with no punctuation" {
		t.Fatalf("unexpected chunk text: %q", chunks[0].Text)
	}
}

func TestChunkEmptyText(t *testing.T) {
	ck := newChunker(6, 1)
	if got := ck.Chunk("doc", "   \n  "); got != nil {
		t.Fatalf("expected nil for blank input, got %+v", got)
	}
}

func TestChunkShortDocumentIsSingleChunk(t *testing.T) {
	ck := newChunker(6, 1)
	chunks := ck.Chunk("doc", "Only two sentences here. That is all.")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "Only two sentences here.") {
		t.Fatalf("unexpected chunk: %q", chunks[0].Text)
	}
}
