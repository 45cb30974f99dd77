package collect

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"stockpipe/internal/application/port"
	"stockpipe/internal/domain"
	domainservice "stockpipe/internal/domain/service"
)

// ErrNoData marks a run where not a single symbol produced a valid record.
// The run is failed and alerted, but the process (and the scheduler loop)
// carries on.
var ErrNoData = errors.New("no valid data collected")

// Loader hands the validated batch to the persistence sinks.
type Loader interface {
	Load(ctx context.Context, batch []*domain.Quote) error
}

type ServiceDeps struct {
	Fetcher     port.QuoteFetcher
	Transformer *domainservice.Transformer
	Validator   *domainservice.Validator
	Loader      Loader
	Alerter     port.Alerter
	Symbols     []string
	Pause       time.Duration // rate-limit delay after every fetch
}

// Service runs one extract-transform-validate-load pass over the configured
// symbols. Per-symbol failures are isolated; only a database write failure or
// an empty batch fails the run.
type Service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) *Service {
	return &Service{deps: deps}
}

func (s *Service) Run(ctx context.Context) error {
	log.Info().Int("symbols", len(s.deps.Symbols)).Msg("starting collection run")

	var batch []*domain.Quote
	var failed []string

	for _, symbol := range s.deps.Symbols {
		raw, err := s.deps.Fetcher.Fetch(ctx, symbol)

		// The provider enforces a requests-per-minute ceiling; pause after
		// every call, including failed ones and the last one.
		if err := s.pause(ctx); err != nil {
			return err
		}

		if err != nil {
			failed = append(failed, symbol)
			continue
		}

		q, err := s.deps.Transformer.Transform(raw, symbol, time.Now())
		if err != nil {
			failed = append(failed, symbol)
			continue
		}

		if res := s.deps.Validator.Validate(q); !res.Valid {
			log.Error().Str("symbol", symbol).Strs("errors", res.Errors).Msg("validation failed")
			failed = append(failed, symbol)
			continue
		}

		batch = append(batch, q)
	}

	var runErr error
	if len(batch) > 0 {
		if err := s.deps.Loader.Load(ctx, batch); err != nil {
			runErr = err
		} else {
			log.Info().
				Int("succeeded", len(batch)).
				Int("total", len(s.deps.Symbols)).
				Msg("pipeline completed")
		}
	} else {
		log.Error().Msg("no valid data collected")
		s.deps.Alerter.Alert("Pipeline failed: no valid data collected")
		runErr = ErrNoData
	}

	if len(failed) > 0 {
		log.Warn().Str("symbols", strings.Join(failed, ", ")).Msg("failed to collect")
	}
	return runErr
}

func (s *Service) pause(ctx context.Context) error {
	if s.deps.Pause <= 0 {
		return nil
	}
	t := time.NewTimer(s.deps.Pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
