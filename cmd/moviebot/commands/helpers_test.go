package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviebot/internal/domain"
	"moviebot/internal/service"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "movies.csv")
	data := "title,titleType,year,genres,rating\n" +
		"Inception,movie,2010,Action Sci-Fi,8.8\n" +
		"Up,movie,2009,Animation Adventure,8.3\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(data), 0o644))

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "llm:\n  base_url: http://127.0.0.1:1/v1\n  timeout_secs: 1\n" +
		"catalog:\n  driver: sqlite3\n  local_path: " + csvPath + "\n" +
		"logging:\n  env: prod\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func TestBuildApp_RecommendsWithBackendDown(t *testing.T) {
	t.Setenv("DB_URL", "")
	cfgFile = writeFixture(t)
	t.Cleanup(func() { cfgFile = "" })

	a, err := buildApp(context.Background(), "")
	require.NoError(t, err)
	defer a.Close()

	require.True(t, a.recommender.Available())
	assert.Equal(t, 2, a.recommender.Len())
	assert.Contains(t, banner(a), "2 titles indexed")

	resp := a.bot.Handle(context.Background(), "recommend a sci-fi movie")
	assert.Equal(t, service.RouteRecommend, resp.Route)
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, "Inception", *resp.Matches[0].Movie.Title)
}

func TestBuildApp_MissingCatalog(t *testing.T) {
	t.Setenv("DB_URL", "")
	cfgFile = writeFixture(t)
	t.Setenv("LOCAL_DATA_PATH", filepath.Join(t.TempDir(), "missing.csv"))
	t.Cleanup(func() { cfgFile = "" })

	_, err := buildApp(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrCatalogLoad)
}
