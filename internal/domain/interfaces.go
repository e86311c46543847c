package domain

import "context"

// CatalogProvider yields the normalized movie catalog.
type CatalogProvider interface {
	Movies(ctx context.Context) ([]Movie, error)
}

// Embedder converts free text into a sparse TF-IDF vector.
// Implementations require a single fit pass over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) (Vector, error)
}

// VectorStore holds row-aligned document vectors and supports similarity search.
type VectorStore interface {
	Init(dimension int) error
	Upsert(movies []Movie, vectors []Vector) error
	Search(vector Vector, topK int) ([]Match, error)
	Len() int
}

// Completer is the text-completion backend used for intent classification.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Replier generates conversational replies.
type Replier interface {
	Reply(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// IntentClassifier classifies a raw user message.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) IntentResult
}

// MovieSearcher is the search surface consumed by the router.
type MovieSearcher interface {
	Available() bool
	Recommend(ctx context.Context, query string, topN int) ([]Match, error)
	LookupFacts(ctx context.Context, query string, topN int) ([]Match, error)
}
