package svc

import (
	"context"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"stockpipe/internal/application/port"
	appservice "stockpipe/internal/application/service"
	"stockpipe/internal/application/usecase/collect"
	domainservice "stockpipe/internal/domain/service"
	"stockpipe/internal/infrastructure/alert"
	"stockpipe/internal/infrastructure/alphavantage"
	"stockpipe/internal/infrastructure/config"
	"stockpipe/internal/infrastructure/storage"
	"stockpipe/internal/infrastructure/storage/csvfile"
	redisrepo "stockpipe/internal/infrastructure/storage/redis"
)

// ServiceContext owns the wired pipeline and its resources for one process.
// All dependency initialization happens here, in dependency order.
type ServiceContext struct {
	Config *config.Config

	Collector *collect.Service

	repo        port.QuoteRepository
	redisClient *redisclient.Client
	closerChain []func() error
}

func New(cfg *config.Config) (*ServiceContext, error) {
	sc := &ServiceContext{Config: cfg}

	repo, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageInitFailed, err)
	}
	sc.repo = repo
	sc.closerChain = append(sc.closerChain, repo.Close)
	log.Info().Str("driver", cfg.Storage.Driver).Msg("database connected")

	var cache port.LatestCache
	if cfg.Storage.Redis.Enabled {
		rdb := redisclient.NewClient(&redisclient.Options{Addr: cfg.Storage.Redis.Addr})
		sc.redisClient = rdb
		sc.closerChain = append(sc.closerChain, rdb.Close)
		cache = redisrepo.New(rdb, cfg.Storage.Redis.Prefix,
			time.Duration(cfg.Storage.Redis.TTLSec)*time.Second)
		log.Info().Str("addr", cfg.Storage.Redis.Addr).Msg("redis cache enabled")
	}

	alerter := alert.NewFileAlerter(cfg.Log.Alert)
	backup := csvfile.New(cfg.Storage.CSV.Dir, cfg.Storage.CSV.History)
	loader := appservice.NewLoader(repo, backup, cache, alerter)
	fetcher := alphavantage.New(cfg.Provider.APIKey, cfg.RequestTimeout(),
		alphavantage.WithBaseURL(cfg.Provider.BaseURL))

	sc.Collector = collect.NewService(collect.ServiceDeps{
		Fetcher:     fetcher,
		Transformer: domainservice.NewTransformer(),
		Validator: domainservice.NewValidator(domainservice.Bounds{
			MinPrice:  cfg.Validation.MinPrice,
			MaxPrice:  cfg.Validation.MaxPrice,
			MinVolume: cfg.Validation.MinVolume,
		}),
		Loader:  loader,
		Alerter: alerter,
		Symbols: cfg.Symbols.List,
		Pause:   cfg.Pause(),
	})

	return sc, nil
}

// Run executes a single pipeline pass.
func (sc *ServiceContext) Run(ctx context.Context) error {
	return sc.Collector.Run(ctx)
}

// Close releases resources in reverse initialization order.
func (sc *ServiceContext) Close() error {
	var firstErr error
	for i := len(sc.closerChain) - 1; i >= 0; i-- {
		if err := sc.closerChain[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
