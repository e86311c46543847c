package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Equal(t, 20000, cfg.Index.MaxFeatures)
	assert.Equal(t, 5, cfg.Search.DefaultTopN)
	assert.Equal(t, "./data/imdb_movies.csv", cfg.Catalog.LocalPath)
	assert.Empty(t, cfg.Catalog.DatabaseURL)
	assert.Equal(t, 30, cfg.Catalog.TimeoutSecs)
}

func TestLoad_CatalogTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  timeout_secs: 4\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Catalog.TimeoutSecs)

	t.Setenv("DB_TIMEOUT_SECS", "9")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Catalog.TimeoutSecs)

	t.Setenv("DB_TIMEOUT_SECS", "-1")
	_, err = Load(path)
	assert.ErrorContains(t, err, "catalog.timeout_secs")
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  model: llama3\nindex:\n  max_features: 100\n"), 0o644))
	t.Setenv("RECOMMEND_TOP_N", "7")
	t.Setenv("DB_URL", "postgres://localhost/movies")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, 100, cfg.Index.MaxFeatures)
	assert.Equal(t, 7, cfg.Search.DefaultTopN)
	assert.Equal(t, "postgres://localhost/movies", cfg.Catalog.DatabaseURL)
	assert.Equal(t, 30, cfg.LLM.TimeoutSecs)
}

func TestLoad_BadEnvInt(t *testing.T) {
	t.Setenv("TFIDF_MAX_FEATURES", "lots")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Catalog.Driver = "mysql"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, `catalog.driver must be "postgres" or "sqlite3", got "mysql"`, err.Error())

	cfg = defaultConfig()
	cfg.Search.DefaultTopN = -1
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Catalog.Limit = 1000
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1000, loaded.Catalog.Limit)
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config_vars.env")
	require.NoError(t, os.WriteFile(path, []byte("MOVIEBOT_TEST_VAR=hello\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("MOVIEBOT_TEST_VAR") })

	require.NoError(t, LoadEnv(path, filepath.Join(t.TempDir(), "missing.env"), ""))
	assert.Equal(t, "hello", os.Getenv("MOVIEBOT_TEST_VAR"))
}
