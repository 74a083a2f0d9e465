package rag

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/components/embedding"

	"waygen/internal/config"
)

const (
	embedderTFIDF  = "tfidf"
	embedderRemote = "remote"

	embedBatchSize = 64
)

// ErrNotInitialized is returned by Search when no index could be loaded
// or built. The tool layer turns it into readable tool output instead
// of aborting the agent run.
var ErrNotInitialized = errors.New("knowledge base not initialized")

// Retriever answers similarity queries against a persisted chunk index.
// Construction never fails hard: a retriever without an index reports
// unavailability through Search.
type Retriever struct {
	index *Index
	embed embedding.Embedder
	topK  int
}

// NewRetriever loads the index at cfg.IndexPath, rebuilding it from
// cfg.DocsDir when missing or unreadable. remote is the embedding
// provider; when nil a local TF-IDF embedder is used.
func NewRetriever(ctx context.Context, cfg config.RAGConfig, remote embedding.Embedder) *Retriever {
	r := &Retriever{topK: cfg.TopK}

	ix, err := LoadIndex(cfg.IndexPath)
	if err == nil {
		if emb, restoreErr := restoreEmbedder(ix, remote); restoreErr == nil {
			r.index = ix
			r.embed = emb
			log.Printf("rag: loaded index with %d chunks from %s", len(ix.Chunks), cfg.IndexPath)
			return r
		} else {
			log.Printf("rag: cannot use saved index: %v", restoreErr)
		}
	} else {
		log.Printf("rag: index not loaded (%v), building from %s", err, cfg.DocsDir)
	}

	ix, emb, err := buildIndex(ctx, cfg.DocsDir, remote)
	if err != nil {
		log.Printf("rag: document retrieval disabled: %v", err)
		return r
	}
	if err := ix.Save(cfg.IndexPath); err != nil {
		log.Printf("rag: could not persist index: %v", err)
	}
	r.index = ix
	r.embed = emb
	log.Printf("rag: built index with %d chunks", len(ix.Chunks))
	return r
}

// Available reports whether similarity search can serve queries.
func (r *Retriever) Available() bool {
	return r != nil && r.index != nil && len(r.index.Chunks) > 0 && r.embed != nil
}

// Search returns up to k passages ordered by similarity to query.
// k <= 0 falls back to the configured default.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]string, error) {
	if !r.Available() {
		return nil, ErrNotInitialized
	}
	if k <= 0 {
		k = r.topK
	}
	vectors, err := r.embed.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, errors.New("embedder returned no vector")
	}
	vec := vectors[0]
	normalize(vec)

	chunks := r.index.Search(vec, k)
	passages := make([]string, 0, len(chunks))
	for _, c := range chunks {
		passages = append(passages, c.Text)
	}
	return passages, nil
}

func restoreEmbedder(ix *Index, remote embedding.Embedder) (embedding.Embedder, error) {
	switch ix.Embedder {
	case embedderTFIDF:
		return Restore(ix.TFIDF)
	case embedderRemote:
		if remote == nil {
			return nil, errors.New("index was built with a remote embedder but none is configured")
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("unknown embedder %q in index", ix.Embedder)
	}
}

func buildIndex(ctx context.Context, docsDir string, remote embedding.Embedder) (*Index, embedding.Embedder, error) {
	docs, err := loadDocuments(ctx, docsDir)
	if err != nil {
		return nil, nil, err
	}
	if len(docs) == 0 {
		return nil, nil, fmt.Errorf("no documents found in %s", docsDir)
	}

	ck := newChunker(6, 1)
	var chunks []Chunk
	for _, doc := range docs {
		chunks = append(chunks, ck.Chunk(doc.id, doc.content)...)
	}
	if len(chunks) == 0 {
		return nil, nil, errors.New("documents contained no indexable text")
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	ix := &Index{Embedder: embedderRemote}
	emb := remote
	if emb == nil {
		tf := NewTFIDF()
		if err := tf.Prepare(texts); err != nil {
			return nil, nil, fmt.Errorf("prepare tf-idf: %w", err)
		}
		ix.Embedder = embedderTFIDF
		ix.TFIDF = tf.State()
		emb = tf
	}

	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := emb.EmbedStrings(ctx, texts[start:end])
		if err != nil {
			return nil, nil, fmt.Errorf("embed chunks: %w", err)
		}
		if len(vectors) != end-start {
			return nil, nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), end-start)
		}
		for i, vec := range vectors {
			if err := ix.add(chunks[start+i], vec); err != nil {
				return nil, nil, err
			}
		}
	}
	return ix, emb, nil
}

type sourceDoc struct {
	id      string
	content string
}

var indexableExtensions = map[string]struct{}{
	".txt":      {},
	".md":       {},
	".markdown": {},
}

func loadDocuments(ctx context.Context, dir string) ([]sourceDoc, error) {
	parserExt, err := parser.NewExtParser(ctx, &parser.ExtParserConfig{
		FallbackParser: parser.TextParser{},
	})
	if err != nil {
		return nil, fmt.Errorf("init document parser: %w", err)
	}
	loader, err := file.NewFileLoader(ctx, &file.FileLoaderConfig{
		UseNameAsID: true,
		Parser:      parserExt,
	})
	if err != nil {
		return nil, fmt.Errorf("init file loader: %w", err)
	}

	var out []sourceDoc
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := indexableExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		docs, err := loader.Load(ctx, document.Source{URI: path})
		if err != nil {
			log.Printf("rag: skip %s: %v", path, err)
			return nil
		}
		var builder strings.Builder
		for _, doc := range docs {
			content := strings.TrimSpace(doc.Content)
			if content == "" {
				continue
			}
			builder.WriteString(content)
			builder.WriteString("\n\n")
		}
		text := strings.TrimSpace(builder.String())
		if text == "" {
			return nil
		}
		out = append(out, sourceDoc{id: filepath.Base(path), content: text})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, walkErr)
	}
	return out, nil
}
