package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Runner is one pipeline pass.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler invokes the runner on a fixed cadence: every interval, or once a
// day at a fixed wall-clock time. The first run happens immediately on start.
// An error escaping a run is logged and never ends the loop; only ctx does.
type Scheduler struct {
	runner   Runner
	cadence  string // "hourly" or "daily"
	interval time.Duration
	dailyAt  string // "HH:MM", local time
}

func New(runner Runner, cadence string, interval time.Duration, dailyAt string) *Scheduler {
	return &Scheduler{
		runner:   runner,
		cadence:  cadence,
		interval: interval,
		dailyAt:  dailyAt,
	}
}

func (s *Scheduler) Run(ctx context.Context) error {
	log.Info().Str("cadence", s.cadence).Msg("scheduler started")

	s.runOnce(ctx)

	for {
		wait := s.untilNext(time.Now())
		log.Info().Dur("wait", wait).Msg("next execution scheduled")

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			log.Info().Msg("scheduler stopped")
			return ctx.Err()
		case <-t.C:
		}

		s.runOnce(ctx)
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	log.Info().Msg("starting scheduled run")
	if err := s.runner.Run(ctx); err != nil {
		log.Error().Err(err).Msg("scheduled execution failed")
	}
}

func (s *Scheduler) untilNext(now time.Time) time.Duration {
	if s.cadence != "daily" {
		return s.interval
	}
	at, err := time.Parse("15:04", s.dailyAt)
	if err != nil {
		return s.interval
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
