// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Component wiring shared by the server and the one-shot CLI.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"schoolrank/internal/cache"
	"schoolrank/internal/config"
	"schoolrank/internal/criteria"
	"schoolrank/internal/dataset"
	"schoolrank/internal/db"
	"schoolrank/internal/logging"
	"schoolrank/internal/metrics"
	"schoolrank/internal/presets"
	"schoolrank/internal/ranking"
	"schoolrank/internal/safety"
)

// App holds the long-lived components built from a Config.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Registry *criteria.Registry
	Scores   *cache.Scores
	Ranker   *ranking.Ranker
	Store    *dataset.Store
	Presets  *presets.Set
	Metrics  *metrics.Metrics
	Limiter  *safety.Limiter

	pool *pgxpool.Pool
}

// New builds every component and performs the initial dataset load.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pref, err := criteria.ParseSizePreference(cfg.SchoolSizePreference)
	if err != nil {
		return nil, err
	}
	reg := criteria.Default(criteria.Options{SizePreference: pref})

	set, err := presets.Load(reg, cfg.PresetsFile)
	if err != nil {
		return nil, err
	}
	if _, ok := set.Get(cfg.Preset); !ok {
		return nil, fmt.Errorf("config: preset %q not found (have %v)", cfg.Preset, set.Names())
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Presets:  set,
		Limiter:  safety.NewLimiter(time.Duration(cfg.ReloadMinIntervalSeconds) * time.Second),
	}

	engineOpts := []ranking.EngineOption{ranking.WithResolver(ranking.Resolver{Neutral: cfg.NeutralValue})}
	var stats metrics.CacheStats
	if cfg.EnableCaching {
		a.Scores = cache.NewScores(time.Duration(cfg.CacheTTLSeconds) * time.Second)
		engineOpts = append(engineOpts, ranking.WithCache(a.Scores))
		stats = a.Scores.Stats
	}
	a.Metrics = metrics.New(stats)
	a.Ranker = ranking.NewRanker(
		ranking.NewEngine(reg, engineOpts...),
		ranking.WithLogger(logging.WithComponent(logger, "ranking")),
		ranking.WithObserver(a.Metrics),
		ranking.WithParallelism(cfg.ParallelThreshold, cfg.MaxWorkers),
	)

	src, err := a.source(ctx)
	if err != nil {
		return nil, err
	}
	storeOpts := []dataset.StoreOption{dataset.WithLogger(logging.WithFields(logger, logging.Fields{Component: "dataset", Source: src.Name()}))}
	if a.Scores != nil {
		storeOpts = append(storeOpts, dataset.WithInvalidator(a.Scores))
	}
	a.Store = dataset.NewStore(src, storeOpts...)

	if _, err := a.Reload(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) source(ctx context.Context) (dataset.Source, error) {
	switch a.Config.Source {
	case config.SourcePostgres:
		pool, err := db.NewPool(ctx, a.Config)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		a.Logger.Info("using postgres source", logging.FieldDSN("dsn", a.Config.DatabaseDSN))
		return dataset.Postgres{Q: pool, Cities: a.Config.Cities}, nil
	default:
		return dataset.JSONDir{Dir: a.Config.DataDir, Cities: a.Config.Cities}, nil
	}
}

// Reload refreshes the dataset and records the outcome in metrics.
func (a *App) Reload(ctx context.Context) (dataset.ReloadSummary, error) {
	sum, err := a.Store.Reload(ctx)
	a.Metrics.ObserveReload(sum.Schools, sum.Invalidated, err)
	return sum, err
}

// Weights returns the weights of the named preset, or of the configured
// default preset when name is empty.
func (a *App) Weights(name string) (ranking.Weights, string, error) {
	if name == "" {
		name = a.Config.Preset
	}
	p, err := a.Presets.Lookup(name)
	if err != nil {
		return nil, name, err
	}
	return p.Weights, name, nil
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
