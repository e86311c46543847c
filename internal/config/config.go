package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// BreakerConfig configures the circuit breaker around the completion backend.
type BreakerConfig struct {
	FailureThreshold int `yaml:"failure_threshold"`
	OpenTimeoutSecs  int `yaml:"open_timeout_secs"`
}

// LLMConfig holds configuration for the OpenAI-compatible completion backend.
type LLMConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	Model       string        `yaml:"model"`
	TimeoutSecs int           `yaml:"timeout_secs"`
	MaxTokens   int           `yaml:"max_tokens"`
	Breaker     BreakerConfig `yaml:"breaker"`
}

// CatalogConfig selects the remote and local catalog sources.
type CatalogConfig struct {
	DatabaseURL string `yaml:"database_url"`
	Driver      string `yaml:"driver"`
	Table       string `yaml:"table"`
	Limit       int    `yaml:"limit"`
	LocalPath   string `yaml:"local_path"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// IndexConfig configures the TF-IDF index.
type IndexConfig struct {
	MaxFeatures int `yaml:"max_features"`
}

// SearchConfig configures result retrieval.
type SearchConfig struct {
	DefaultTopN int `yaml:"default_top_n"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// HTTPConfig configures the HTTP chat API.
type HTTPConfig struct {
	Addr             string `yaml:"addr"`
	ReadTimeoutSecs  int    `yaml:"read_timeout_secs"`
	WriteTimeoutSecs int    `yaml:"write_timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	LLM     LLMConfig     `yaml:"llm"`
	Catalog CatalogConfig `yaml:"catalog"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// LoadEnv loads variables from the given dotenv files, ignoring missing ones.
// Variables already present in the environment win.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			if err := applyEnv(cfg); err != nil {
				return nil, err
			}
			return cfg, cfg.Validate()
		}
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadDefault tries ./config.yaml first, then ~/.config/moviebot/config.yaml.
// If neither exists, it writes defaults to ~/.config/moviebot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	if err := Save(userPath, defaultConfig()); err != nil {
		return nil, "", err
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the configuration for values no component can use.
func (c *AppConfig) Validate() error {
	if c.Index.MaxFeatures < 0 {
		return fmt.Errorf("index.max_features must be >= 0, got %d", c.Index.MaxFeatures)
	}
	if c.Search.DefaultTopN < 0 {
		return fmt.Errorf("search.default_top_n must be >= 0, got %d", c.Search.DefaultTopN)
	}
	if c.Catalog.Limit < 0 {
		return fmt.Errorf("catalog.limit must be >= 0, got %d", c.Catalog.Limit)
	}
	switch c.Catalog.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("catalog.driver must be \"postgres\" or \"sqlite3\", got %q", c.Catalog.Driver)
	}
	if c.Catalog.TimeoutSecs <= 0 {
		return fmt.Errorf("catalog.timeout_secs must be > 0, got %d", c.Catalog.TimeoutSecs)
	}
	if c.LLM.TimeoutSecs <= 0 {
		return fmt.Errorf("llm.timeout_secs must be > 0, got %d", c.LLM.TimeoutSecs)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "moviebot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		LLM: LLMConfig{
			BaseURL:     "http://localhost:11434/v1",
			APIKeyEnv:   "OLLAMA_API_KEY",
			Model:       "mistral",
			TimeoutSecs: 30,
			MaxTokens:   512,
			Breaker:     BreakerConfig{FailureThreshold: 3, OpenTimeoutSecs: 30},
		},
		Catalog: CatalogConfig{
			Driver:      "postgres",
			Table:       "imdb_movies",
			LocalPath:   "./data/imdb_movies.csv",
			TimeoutSecs: 30,
		},
		Index:   IndexConfig{MaxFeatures: 20000},
		Search:  SearchConfig{DefaultTopN: 5},
		Logging: LoggingConfig{Env: "dev", Level: "info"},
		HTTP:    HTTPConfig{Addr: ":8080", ReadTimeoutSecs: 15, WriteTimeoutSecs: 60},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = def.LLM.BaseURL
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = def.LLM.TimeoutSecs
	}
	if cfg.LLM.Breaker.FailureThreshold == 0 {
		cfg.LLM.Breaker.FailureThreshold = def.LLM.Breaker.FailureThreshold
	}
	if cfg.LLM.Breaker.OpenTimeoutSecs == 0 {
		cfg.LLM.Breaker.OpenTimeoutSecs = def.LLM.Breaker.OpenTimeoutSecs
	}
	if cfg.Catalog.Driver == "" {
		cfg.Catalog.Driver = def.Catalog.Driver
	}
	if cfg.Catalog.Table == "" {
		cfg.Catalog.Table = def.Catalog.Table
	}
	if cfg.Catalog.LocalPath == "" {
		cfg.Catalog.LocalPath = def.Catalog.LocalPath
	}
	if cfg.Catalog.TimeoutSecs == 0 {
		cfg.Catalog.TimeoutSecs = def.Catalog.TimeoutSecs
	}
	if cfg.Logging.Env == "" {
		cfg.Logging.Env = def.Logging.Env
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = def.HTTP.Addr
	}
}

func applyEnv(cfg *AppConfig) error {
	str := map[string]*string{
		"OLLAMA_MODEL":    &cfg.LLM.Model,
		"OLLAMA_BASE_URL": &cfg.LLM.BaseURL,
		"DB_URL":          &cfg.Catalog.DatabaseURL,
		"DB_DRIVER":       &cfg.Catalog.Driver,
		"DB_TABLE":        &cfg.Catalog.Table,
		"LOCAL_DATA_PATH": &cfg.Catalog.LocalPath,
		"LOG_ENV":         &cfg.Logging.Env,
		"LOG_LEVEL":       &cfg.Logging.Level,
		"HTTP_ADDR":       &cfg.HTTP.Addr,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	ints := map[string]*int{
		"TFIDF_MAX_FEATURES": &cfg.Index.MaxFeatures,
		"RECOMMEND_TOP_N":    &cfg.Search.DefaultTopN,
		"DB_TIMEOUT_SECS":    &cfg.Catalog.TimeoutSecs,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return nil
}
