package memory

import (
	"errors"
	"sort"
	"sync"

	"moviebot/internal/domain"
)

// Storage is an in-memory vector store using brute-force cosine similarity.
// Rows keep their catalog order, which breaks score ties.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   []domain.Vector
	movies    []domain.Movie
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.movies = nil
	return nil
}

func (s *Storage) Upsert(movies []domain.Movie, vectors []domain.Vector) error {
	if len(movies) != len(vectors) {
		return errors.New("movies and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		return errors.New("storage not initialized")
	}
	for _, v := range vectors {
		if n := len(v.Indices); n > 0 && v.Indices[n-1] >= s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.movies = append(s.movies, movies...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns the topK rows by descending score. topK of zero yields no
// rows; topK larger than the store yields every row.
func (s *Storage) Search(vector domain.Vector, topK int) ([]domain.Match, error) {
	if topK < 0 {
		return nil, errors.New("negative topK")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	// vectors are L2-normalized, so the dot product is the cosine similarity
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = s.vectors[i].Dot(vector)
	}
	idxs := argsortDesc(scores)
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.Match, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.Match{Movie: s.movies[j], Score: scores[j]})
	}
	return results, nil
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

func argsortDesc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return vals[idxs[a]] > vals[idxs[b]] })
	return idxs
}
