package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"moviebot/internal/domain"
)

// Source is a single catalog backend.
type Source interface {
	domain.CatalogProvider
	Name() string
}

// Fallback tries the remote source first and falls back to the local one on
// any failure. A nil remote means only the local source is used.
type Fallback struct {
	remote        Source
	local         Source
	remoteTimeout time.Duration
	logger        *zap.Logger
}

func NewFallback(remote, local Source, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{remote: remote, local: local, logger: logger}
}

// WithRemoteTimeout bounds the remote load. Zero leaves it unbounded.
func (p *Fallback) WithRemoteTimeout(d time.Duration) *Fallback {
	p.remoteTimeout = d
	return p
}

func (p *Fallback) Movies(ctx context.Context) ([]domain.Movie, error) {
	if p.remote != nil {
		movies, err := p.loadRemote(ctx)
		if err == nil {
			p.logger.Info("loaded catalog", zap.String("source", p.remote.Name()), zap.Int("rows", len(movies)))
			return movies, nil
		}
		p.logger.Warn("remote catalog load failed; trying local file",
			zap.String("source", p.remote.Name()), zap.Error(err))
	}
	if p.local == nil {
		return nil, fmt.Errorf("no local catalog configured: %w", domain.ErrCatalogLoad)
	}
	movies, err := p.local.Movies(ctx)
	if err != nil {
		p.logger.Error("local catalog load failed", zap.String("source", p.local.Name()), zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", p.local.Name(), domain.ErrCatalogLoad, err)
	}
	p.logger.Info("loaded catalog", zap.String("source", p.local.Name()), zap.Int("rows", len(movies)))
	return movies, nil
}

func (p *Fallback) loadRemote(ctx context.Context) ([]domain.Movie, error) {
	if p.remoteTimeout <= 0 {
		return p.remote.Movies(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, p.remoteTimeout)
	defer cancel()
	return p.remote.Movies(ctx)
}
