package tfidf

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"moviebot/internal/domain"
)

// Embedder implements a TF-IDF vectorizer with a frozen vocabulary.
// It builds the vocabulary from the corpus once, keeping at most maxFeatures
// terms ranked by corpus term frequency.
type Embedder struct {
	vocabulary   map[string]int
	idf          []float64
	dimension    int
	maxFeatures  int
	prepared     bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewEmbedder creates an unprepared TF-IDF embedder.
// maxFeatures <= 0 disables the vocabulary cutoff.
func NewEmbedder(maxFeatures int) *Embedder {
	return &Embedder{
		vocabulary:   make(map[string]int),
		maxFeatures:  maxFeatures,
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}_]{2,}`),
		stopwords:    englishStopwords(),
	}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF values from the provided corpus.
// It may only succeed once; the vocabulary is frozen afterwards.
func (e *Embedder) Prepare(corpus []string) error {
	if e.prepared {
		return errors.New("tfidf embedder already prepared")
	}
	if len(corpus) == 0 {
		return fmt.Errorf("empty corpus: %w", domain.ErrIndexBuild)
	}
	// Document and corpus frequencies
	df := make(map[string]int)
	tf := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			tf[tok]++
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return fmt.Errorf("no tokens found in corpus: %w", domain.ErrIndexBuild)
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if e.maxFeatures > 0 && len(terms) > e.maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if tf[terms[i]] != tf[terms[j]] {
				return tf[terms[i]] > tf[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:e.maxFeatures]
	}
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Dimension returns the vocabulary size.
func (e *Embedder) Dimension() int { return e.dimension }

// Contains reports whether term survived the vocabulary cutoff.
func (e *Embedder) Contains(term string) bool {
	_, ok := e.vocabulary[strings.ToLower(term)]
	return ok
}

// Embed computes the L2-normalized TF-IDF vector for text.
// Terms outside the vocabulary are ignored.
func (e *Embedder) Embed(text string) (domain.Vector, error) {
	if !e.prepared {
		return domain.Vector{}, errors.New("tfidf embedder not prepared")
	}
	counts := make(map[int]int)
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return domain.Vector{}, nil
	}
	vec := domain.Vector{
		Indices: make([]int, 0, len(counts)),
		Weights: make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	norm := 0.0
	for _, idx := range vec.Indices {
		w := float64(counts[idx]) * e.idf[idx]
		vec.Weights = append(vec.Weights, w)
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec.Weights {
			vec.Weights[i] /= norm
		}
	}
	return vec, nil
}

func (e *Embedder) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := e.tokenPattern.FindAllString(lower, -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}
