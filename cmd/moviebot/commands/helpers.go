package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"moviebot/internal/catalog"
	"moviebot/internal/config"
	"moviebot/internal/embedding/tfidf"
	"moviebot/internal/intent"
	"moviebot/internal/llm"
	"moviebot/internal/logger"
	"moviebot/internal/service"
	"moviebot/internal/vectorstore"
	"moviebot/internal/vectorstore/memory"
)

// app holds the assembled components shared by every subcommand.
type app struct {
	cfg         *config.AppConfig
	logger      *zap.Logger
	recommender *service.Recommender
	bot         *service.Bot
	closers     []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c()
	}
	_ = a.logger.Sync()
}

func loadConfig() (*config.AppConfig, error) {
	if err := config.LoadEnv(".env", "config_vars.env", envFile); err != nil {
		return nil, err
	}
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

// buildApp loads config and catalog and wires the bot. logFile overrides the
// configured log destination when set.
func buildApp(ctx context.Context, logFile string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logFile == "" {
		logFile = cfg.Logging.File
	}
	log, err := logger.NewLogger(cfg.Logging.Env, cfg.Logging.Level, logFile)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &app{cfg: cfg, logger: log}

	local := catalog.NewFileSource(cfg.Catalog.LocalPath)
	var provider *catalog.Fallback
	if cfg.Catalog.DatabaseURL != "" {
		remote, err := catalog.OpenSQL(catalog.SQLConfig{
			Driver: cfg.Catalog.Driver,
			URL:    cfg.Catalog.DatabaseURL,
			Table:  cfg.Catalog.Table,
			Limit:  cfg.Catalog.Limit,
		})
		if err != nil {
			log.Warn("remote catalog misconfigured; using local file only", zap.Error(err))
			provider = catalog.NewFallback(nil, local, log)
		} else {
			a.closers = append(a.closers, remote.Close)
			provider = catalog.NewFallback(remote, local, log)
		}
	} else {
		provider = catalog.NewFallback(nil, local, log)
	}

	provider.WithRemoteTimeout(time.Duration(cfg.Catalog.TimeoutSecs) * time.Second)

	movies, err := provider.Movies(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var store vectorstore.Storage = memory.NewStorage()
	a.recommender = service.NewRecommender(movies, tfidf.NewEmbedder(cfg.Index.MaxFeatures), store, cfg.Search.DefaultTopN, log)

	client := llm.NewClient(llm.Config{
		BaseURL:          cfg.LLM.BaseURL,
		APIKeyEnv:        cfg.LLM.APIKeyEnv,
		Model:            cfg.LLM.Model,
		Timeout:          time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		MaxTokens:        cfg.LLM.MaxTokens,
		FailureThreshold: cfg.LLM.Breaker.FailureThreshold,
		OpenTimeout:      time.Duration(cfg.LLM.Breaker.OpenTimeoutSecs) * time.Second,
		Logger:           log,
	})
	classifier := intent.NewClassifier(client, log)
	a.bot = service.NewBot(classifier, a.recommender, client, cfg.Search.DefaultTopN, log)

	log.Info("moviebot ready",
		zap.String("model", client.Model()),
		zap.Int("catalog_rows", len(movies)),
		zap.Bool("search_available", a.recommender.Available()))
	return a, nil
}

func banner(a *app) string {
	if !a.recommender.Available() {
		return "Search index unavailable; chatting only. Esc to quit."
	}
	return fmt.Sprintf("%d titles indexed. Esc to quit.", a.recommender.Len())
}
