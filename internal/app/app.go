// Package app assembles the services from configuration. It is the
// composition root shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecjudge/internal/config"
	"github.com/kailas-cloud/vecjudge/internal/db"
	dbRedis "github.com/kailas-cloud/vecjudge/internal/db/redis"
	"github.com/kailas-cloud/vecjudge/internal/domain"
	"github.com/kailas-cloud/vecjudge/internal/index"
	"github.com/kailas-cloud/vecjudge/internal/ingest"
	"github.com/kailas-cloud/vecjudge/internal/metrics"
	rubricrepo "github.com/kailas-cloud/vecjudge/internal/repository/rubric"
	"github.com/kailas-cloud/vecjudge/internal/repository/verdictcache"
	openaiChk "github.com/kailas-cloud/vecjudge/internal/transport/openai"
	askuc "github.com/kailas-cloud/vecjudge/internal/usecase/ask"
	"github.com/kailas-cloud/vecjudge/internal/usecase/checker"
	corpusuc "github.com/kailas-cloud/vecjudge/internal/usecase/corpus"
	healthuc "github.com/kailas-cloud/vecjudge/internal/usecase/health"
	judgeuc "github.com/kailas-cloud/vecjudge/internal/usecase/judge"
)

// App holds the wired services.
type App struct {
	Loader   *ingest.Loader
	Holder   *index.Holder
	Corpus   *corpusuc.Service
	Ask      *askuc.Service
	Judge    *judgeuc.Service
	Rubrics  *rubricrepo.Store
	Health   *healthuc.Service
	Semantic checker.Capability

	store db.Store // nil when the verdict cache is disabled
}

// New wires every service from cfg. When the cache is enabled it waits for
// the store to become ready. Call Close when done.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create cache store: %w", err)
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, fmt.Errorf("wait for cache store: %w", err)
		}
		logger.Info("Connected to verdict cache", zap.Strings("addrs", cfg.Cache.Addrs))
		a.store = store
	}

	a.Semantic = buildSemantic(cfg, a.store, logger)
	logger.Info("Semantic checker configured",
		zap.Bool("available", a.Semantic.IsAvailable()),
		zap.String("model", cfg.Semantic.Model),
		zap.Bool("cache", a.store != nil),
	)

	dispatcher := checker.New(a.Semantic, logger).
		WithTimeout(time.Duration(cfg.Semantic.TimeoutSec) * time.Second)

	a.Loader = ingest.NewLoader(cfg.Corpus.MinChunkChars, cfg.Corpus.MaxChunkChars, cfg.Corpus.Include, logger)
	a.Holder = index.NewHolder()
	a.Corpus = corpusuc.New(a.Loader, a.Holder, cfg.Corpus.Path, cfg.Index.MaxFeatures, logger)
	a.Ask = askuc.New(a.Holder, cfg.Index.DefaultK, cfg.Index.MaxK, logger)
	a.Rubrics = rubricrepo.NewStore(cfg.Judge.RubricDir)
	a.Judge = judgeuc.New(dispatcher, a.Rubrics, cfg.Judge.DefaultRubric, logger)

	// Pass nil interfaces (not typed nil pointers) for disabled components.
	var semanticHealth healthuc.SemanticChecker
	if a.Semantic.IsAvailable() {
		semanticHealth = a.Semantic
	}
	var cacheHealth healthuc.CachePinger
	if a.store != nil {
		cacheHealth = a.store
	}
	a.Health = healthuc.New(a.Holder, semanticHealth, cacheHealth)

	return a, nil
}

// Close releases the cache connection.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// buildSemantic assembles the decorator chain: OpenAI -> Cached.
// No API key means the capability is Unavailable and semantic rules fail.
func buildSemantic(cfg *config.Config, store db.KVStore, logger *zap.Logger) checker.Capability {
	if !cfg.Semantic.Enabled() {
		return checker.Unavailable()
	}

	var backend domain.SemanticChecker = openaiChk.NewChecker(&openaiChk.Config{
		APIKey:          cfg.Semantic.APIKey,
		BaseURL:         cfg.Semantic.BaseURL,
		Model:           cfg.Semantic.Model,
		MaxContextChars: cfg.Semantic.MaxContextChars,
		Logger:          logger,
	})

	if store != nil {
		backend = verdictcache.New(
			backend, store, cfg.Semantic.Model,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.VerdictCacheTotal, logger,
		)
	}

	return checker.Available(backend)
}
