package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"stockpipe/internal/application/port"
	"stockpipe/internal/domain"
)

// Loader writes a validated batch to the relational sink and the flat-file
// backup. Database failures propagate and abort the rest of the batch; backup
// failures alert but never fail the run. The latest-quote cache is optional
// and strictly best-effort.
type Loader struct {
	repo    port.QuoteRepository
	backup  port.BackupWriter
	cache   port.LatestCache // may be nil
	alerter port.Alerter
}

func NewLoader(repo port.QuoteRepository, backup port.BackupWriter, cache port.LatestCache, alerter port.Alerter) *Loader {
	return &Loader{repo: repo, backup: backup, cache: cache, alerter: alerter}
}

func (l *Loader) Load(ctx context.Context, batch []*domain.Quote) error {
	if len(batch) == 0 {
		log.Warn().Msg("no data to load")
		return nil
	}

	for _, q := range batch {
		if err := l.repo.SaveQuote(ctx, q); err != nil {
			log.Error().Err(err).Str("symbol", q.Symbol).Msg("database write failed")
			l.alerter.Alert(fmt.Sprintf("Failed to load data: %v", err))
			return fmt.Errorf("save %s: %w", q.Symbol, err)
		}
		log.Info().Str("symbol", q.Symbol).Msg("saved to database")
	}

	if err := l.backup.Append(batch); err != nil {
		log.Error().Err(err).Msg("csv backup failed")
		l.alerter.Alert(fmt.Sprintf("CSV backup failed: %v", err))
	}

	if l.cache != nil {
		if err := l.cache.SetLatest(ctx, batch); err != nil {
			log.Warn().Err(err).Msg("latest-quote cache update failed")
		}
	}

	log.Info().Int("records", len(batch)).Msg("batch loaded")
	return nil
}
