package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"stockpipe/internal/domain"
)

// Transformer maps provider field keys onto a typed Quote.
type Transformer struct{}

func NewTransformer() *Transformer { return &Transformer{} }

// Transform builds a Quote from the raw provider mapping. Missing keys fall
// back to zero values; a present value that cannot be coerced to its type
// fails the whole transform and no record is produced.
func (t *Transformer) Transform(raw domain.RawQuote, symbol string, now time.Time) (*domain.Quote, error) {
	price, err := floatField(raw, domain.KeyPrice)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("transform failed")
		return nil, err
	}
	volume, err := intField(raw, domain.KeyVolume)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("transform failed")
		return nil, err
	}
	prevClose, err := floatField(raw, domain.KeyPreviousClose)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("transform failed")
		return nil, err
	}
	change, err := floatField(raw, domain.KeyChange)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("transform failed")
		return nil, err
	}

	changePercent, ok := raw[domain.KeyChangePercent]
	if !ok {
		changePercent = "0%"
	}

	q := &domain.Quote{
		Timestamp:        now,
		Symbol:           symbol,
		Price:            price,
		Volume:           volume,
		LatestTradingDay: raw[domain.KeyLatestTradingDay],
		PreviousClose:    prevClose,
		Change:           change,
		ChangePercent:    strings.ReplaceAll(changePercent, "%", ""),
	}

	log.Info().Str("symbol", symbol).Float64("price", q.Price).Msg("transformed")
	return q, nil
}

func floatField(raw domain.RawQuote, key string) (float64, error) {
	s, ok := raw[key]
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: invalid number %q", key, s)
	}
	return n, nil
}

func intField(raw domain.RawQuote, key string) (int64, error) {
	s, ok := raw[key]
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: invalid integer %q", key, s)
	}
	return n, nil
}
