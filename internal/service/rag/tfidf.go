package rag

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
)

// TFIDF is a local embedder used when no remote embedding provider is
// configured. It builds a vocabulary over the corpus at index time and
// implements the eino embedding.Embedder interface so the retriever
// does not care which kind of embedder backs it.
type TFIDF struct {
	vocabulary   map[string]int
	idf          []float64
	dimension    int
	prepared     bool
	tokenPattern *regexp.Regexp
}

// TFIDFState is the gob-persistable snapshot stored inside the index
// file so a loaded index can embed queries without the source corpus.
type TFIDFState struct {
	Terms []string
	IDF   []float64
}

// NewTFIDF creates an unprepared TF-IDF embedder.
func NewTFIDF() *TFIDF {
	return &TFIDF{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
	}
}

// Prepare builds the vocabulary and IDF values from the corpus.
func (e *TFIDF) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for tf-idf prepare")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus")
	}

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// State exports the prepared vocabulary for persistence.
func (e *TFIDF) State() *TFIDFState {
	if !e.prepared {
		return nil
	}
	terms := make([]string, e.dimension)
	for term, idx := range e.vocabulary {
		terms[idx] = term
	}
	return &TFIDFState{Terms: terms, IDF: append([]float64(nil), e.idf...)}
}

// Restore rebuilds a prepared embedder from a persisted snapshot.
func Restore(state *TFIDFState) (*TFIDF, error) {
	if state == nil || len(state.Terms) == 0 || len(state.Terms) != len(state.IDF) {
		return nil, errors.New("invalid tf-idf state")
	}
	e := NewTFIDF()
	e.vocabulary = make(map[string]int, len(state.Terms))
	for i, term := range state.Terms {
		e.vocabulary[term] = i
	}
	e.idf = append([]float64(nil), state.IDF...)
	e.dimension = len(state.Terms)
	e.prepared = true
	return e, nil
}

// EmbedStrings computes one TF-IDF vector per input text.
func (e *TFIDF) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if !e.prepared {
		return nil, errors.New("tf-idf embedder not prepared")
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = e.embed(text)
	}
	return out, nil
}

func (e *TFIDF) embed(text string) []float64 {
	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
	}
	normalize(vec)
	return vec
}

func (e *TFIDF) tokenize(text string) []string {
	return e.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func normalize(vec []float64) {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] /= norm
	}
}
