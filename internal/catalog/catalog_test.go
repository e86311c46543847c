package catalog

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"moviebot/internal/domain"
)

func TestNormalize(t *testing.T) {
	m := Normalize(Record{
		"ID":        int64(7),
		"Title":     "Inception",
		"titleType": []byte("movie"),
		"YEAR":      float64(2010),
		"genres":    "",
		"rating":    "8.8",
	})
	require.NotNil(t, m.ID)
	assert.Equal(t, "7", *m.ID)
	assert.Equal(t, "Inception", *m.Title)
	assert.Equal(t, "movie", *m.TitleType)
	assert.Equal(t, "2010", *m.Year)
	assert.Nil(t, m.Genres)
	assert.InDelta(t, 8.8, *m.Rating, 1e-9)

	empty := Normalize(Record{"unrelated": "x"})
	assert.Equal(t, domain.Movie{}, empty)

	alt := Normalize(Record{"title_type": "tvSeries", "rating": "n/a"})
	assert.Equal(t, "tvSeries", *alt.TitleType)
	assert.Nil(t, alt.Rating)
}

func TestFileSource_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	data := "id,title,titleType,year,genres,rating\n" +
		"1,Inception,movie,2010,Sci-Fi,8.8\n" +
		"2,Up,movie,2009,Animation,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	movies, err := NewFileSource(path).Movies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Inception", *movies[0].Title)
	assert.Nil(t, movies[1].Rating)
}

func TestFileSource_MissingColumnsAreNull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte("title\nHeat\n"), 0o644))

	movies, err := NewFileSource(path).Movies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Heat", *movies[0].Title)
	assert.Nil(t, movies[0].Year)
	assert.Nil(t, movies[0].Genres)
}

type parquetMovie struct {
	ID        *string  `parquet:"id,optional"`
	Title     *string  `parquet:"title,optional"`
	TitleType *string  `parquet:"titleType,optional"`
	Year      *string  `parquet:"year,optional"`
	Genres    *string  `parquet:"genres,optional"`
	Rating    *float64 `parquet:"rating,optional"`
}

func TestFileSource_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.parquet")
	rows := []parquetMovie{
		{Title: domain.StringPtr("Inception"), Year: domain.StringPtr("2010"), Rating: domain.FloatPtr(8.8)},
		{Title: domain.StringPtr("Up")},
	}
	require.NoError(t, parquet.WriteFile(path, rows))

	movies, err := NewFileSource(path).Movies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Inception", *movies[0].Title)
	assert.Equal(t, "2010", *movies[0].Year)
	assert.InDelta(t, 8.8, *movies[0].Rating, 1e-9)
	assert.Nil(t, movies[1].Rating)
	assert.Nil(t, movies[1].Year)
}

func TestFileSource_ParquetColumnCaseAndTypes(t *testing.T) {
	type row struct {
		Title     string  `parquet:"Title"`
		TitleType string  `parquet:"TitleType"`
		Year      int64   `parquet:"Year"`
		Rating    float32 `parquet:"RATING"`
	}
	path := filepath.Join(t.TempDir(), "movies.parquet")
	require.NoError(t, parquet.WriteFile(path, []row{{Title: "Inception", TitleType: "movie", Year: 2010, Rating: 8.5}}))

	movies, err := NewFileSource(path).Movies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	m := movies[0]
	require.NotNil(t, m.TitleType)
	assert.Equal(t, "movie", *m.TitleType)
	require.NotNil(t, m.Year)
	assert.Equal(t, "2010", *m.Year)
	require.NotNil(t, m.Rating)
	assert.InDelta(t, 8.5, *m.Rating, 1e-6)
	assert.Nil(t, m.ID)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.csv")).Movies(context.Background())
	assert.Error(t, err)
}

func newSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`CREATE TABLE imdb_movies (id TEXT, title TEXT, titleType TEXT, year INTEGER, genres TEXT, rating REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO imdb_movies VALUES
		('tt1', 'Inception', 'movie', 2010, 'Sci-Fi', 8.8),
		('tt2', 'Up', 'movie', 2009, 'Animation', NULL),
		('tt3', 'Heat', 'movie', 1995, 'Crime', 8.3)`)
	require.NoError(t, err)
	return db
}

func TestSQLSource(t *testing.T) {
	src, err := NewSQLSource(newSQLite(t), "imdb_movies", 0)
	require.NoError(t, err)

	movies, err := src.Movies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, "Inception", *movies[0].Title)
	assert.Equal(t, "2010", *movies[0].Year)
	assert.Nil(t, movies[1].Rating)
}

func TestSQLSource_Limit(t *testing.T) {
	src, err := NewSQLSource(newSQLite(t), "imdb_movies", 2)
	require.NoError(t, err)

	movies, err := src.Movies(context.Background())
	require.NoError(t, err)
	assert.Len(t, movies, 2)
}

func TestSQLSource_RejectsBadTable(t *testing.T) {
	_, err := NewSQLSource(newSQLite(t), "movies; DROP TABLE x", 0)
	assert.Error(t, err)
}

func TestOpenSQL_NoURL(t *testing.T) {
	_, err := OpenSQL(SQLConfig{Driver: "postgres", Table: "imdb_movies"})
	assert.ErrorIs(t, err, domain.ErrCatalogLoad)
}

type stubSource struct {
	movies []domain.Movie
	err    error
	calls  int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Movies(context.Context) ([]domain.Movie, error) {
	s.calls++
	return s.movies, s.err
}

func TestFallback(t *testing.T) {
	remoteRows := []domain.Movie{{Title: domain.StringPtr("remote")}}
	localRows := []domain.Movie{{Title: domain.StringPtr("local")}}

	t.Run("remote succeeds", func(t *testing.T) {
		local := &stubSource{movies: localRows}
		p := NewFallback(&stubSource{movies: remoteRows}, local, zap.NewNop())
		got, err := p.Movies(context.Background())
		require.NoError(t, err)
		assert.Equal(t, remoteRows, got)
		assert.Zero(t, local.calls)
	})

	t.Run("remote fails", func(t *testing.T) {
		p := NewFallback(&stubSource{err: errors.New("dial tcp: refused")}, &stubSource{movies: localRows}, nil)
		got, err := p.Movies(context.Background())
		require.NoError(t, err)
		assert.Equal(t, localRows, got)
	})

	t.Run("no remote", func(t *testing.T) {
		p := NewFallback(nil, &stubSource{movies: localRows}, nil)
		got, err := p.Movies(context.Background())
		require.NoError(t, err)
		assert.Equal(t, localRows, got)
	})

	t.Run("both fail", func(t *testing.T) {
		p := NewFallback(&stubSource{err: errors.New("down")}, &stubSource{err: os.ErrNotExist}, nil)
		_, err := p.Movies(context.Background())
		assert.ErrorIs(t, err, domain.ErrCatalogLoad)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

// hangingSource blocks until its context is done.
type hangingSource struct{}

func (hangingSource) Name() string { return "hanging" }

func (hangingSource) Movies(ctx context.Context) ([]domain.Movie, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestFallback_RemoteTimeout(t *testing.T) {
	localRows := []domain.Movie{{Title: domain.StringPtr("local")}}
	local := &stubSource{movies: localRows}
	p := NewFallback(hangingSource{}, local, nil).WithRemoteTimeout(20 * time.Millisecond)

	start := time.Now()
	got, err := p.Movies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, localRows, got)
	assert.Equal(t, 1, local.calls)
	assert.Less(t, time.Since(start), 5*time.Second)
}
