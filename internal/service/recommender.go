package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"moviebot/internal/domain"
	"moviebot/internal/metrics"
)

// Recommender is the similarity search service over the movie catalog.
// It is built once; after a failed build it stays unavailable.
type Recommender struct {
	embedder    domain.Embedder
	store       domain.VectorStore
	defaultTopN int
	buildErr    error
	logger      *zap.Logger
}

// NewRecommender fits the embedder on the catalog and fills the store. A build
// failure is logged and recorded instead of returned: the recommender is then
// permanently unavailable and every search returns domain.ErrIndexUnavailable.
func NewRecommender(movies []domain.Movie, embedder domain.Embedder, store domain.VectorStore, defaultTopN int, logger *zap.Logger) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recommender{embedder: embedder, store: store, defaultTopN: defaultTopN, logger: logger}
	if err := r.build(movies); err != nil {
		r.buildErr = err
		logger.Error("failed to build TF-IDF index", zap.Error(err))
		return r
	}
	metrics.CatalogRows.Set(float64(len(movies)))
	logger.Info("TF-IDF index built",
		zap.Int("rows", len(movies)),
		zap.Int("vocabulary", embedder.Dimension()),
	)
	return r
}

func (r *Recommender) build(movies []domain.Movie) error {
	corpus := make([]string, len(movies))
	for i, m := range movies {
		corpus[i] = m.SearchText()
	}
	if err := r.embedder.Prepare(corpus); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexBuild, err)
	}
	if err := r.store.Init(r.embedder.Dimension()); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexBuild, err)
	}
	vectors := make([]domain.Vector, len(movies))
	for i, text := range corpus {
		vec, err := r.embedder.Embed(text)
		if err != nil {
			return fmt.Errorf("%w: embed row %d: %w", domain.ErrIndexBuild, i, err)
		}
		vectors[i] = vec
	}
	if err := r.store.Upsert(movies, vectors); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexBuild, err)
	}
	if r.store.Len() != len(movies) {
		return fmt.Errorf("%w: stored %d of %d rows", domain.ErrIndexBuild, r.store.Len(), len(movies))
	}
	return nil
}

// Available reports whether the index was built.
func (r *Recommender) Available() bool { return r.buildErr == nil }

// BuildError returns the reason the index is unavailable, if any.
func (r *Recommender) BuildError() error { return r.buildErr }

// Len returns the number of indexed rows.
func (r *Recommender) Len() int {
	if !r.Available() {
		return 0
	}
	return r.store.Len()
}

// Search returns the topN rows most similar to query. Ties keep catalog
// order. A negative topN selects the configured default.
func (r *Recommender) Search(ctx context.Context, query string, topN int) ([]domain.Match, error) {
	if !r.Available() {
		return nil, domain.ErrIndexUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topN < 0 {
		topN = r.defaultTopN
	}
	vec, err := r.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return r.store.Search(vec, topN)
}

// Recommend returns candidate movies for a free-text request.
func (r *Recommender) Recommend(ctx context.Context, query string, topN int) ([]domain.Match, error) {
	return r.timed(ctx, "recommend", query, topN)
}

// LookupFacts returns candidate movies for a fact question such as
// "rating of Inception".
func (r *Recommender) LookupFacts(ctx context.Context, query string, topN int) ([]domain.Match, error) {
	return r.timed(ctx, "lookup", query, topN)
}

func (r *Recommender) timed(ctx context.Context, mode, query string, topN int) ([]domain.Match, error) {
	start := time.Now()
	res, err := r.Search(ctx, query, topN)
	metrics.SearchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	return res, err
}
