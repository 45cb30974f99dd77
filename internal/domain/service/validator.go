package service

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"stockpipe/internal/domain"
)

// Bounds holds the validation thresholds, sourced from config.
type Bounds struct {
	MinPrice  float64
	MaxPrice  float64
	MinVolume int64
}

// Result is the outcome of validating one Quote. Errors preserves the order
// in which rules were evaluated.
type Result struct {
	Valid  bool
	Errors []string
}

// Validator applies range/type/presence rules to normalized quotes.
type Validator struct {
	bounds Bounds
}

func NewValidator(bounds Bounds) *Validator {
	return &Validator{bounds: bounds}
}

// Validate checks the record against all rules. Field presence is checked
// first and short-circuits everything else; the remaining rules are all
// evaluated and all violations collected. A zero price yields two errors
// (out of range plus zero-price), which is a deliberate redundant signal.
func (v *Validator) Validate(q *domain.Quote) Result {
	var errs []string

	if q == nil {
		return Result{Valid: false, Errors: []string{"missing record"}}
	}
	if q.Timestamp.IsZero() {
		errs = append(errs, "Missing required field: timestamp")
	}
	if q.Symbol == "" {
		errs = append(errs, "Missing required field: symbol")
	}
	if len(errs) > 0 {
		v.warn(q, errs)
		return Result{Valid: false, Errors: errs}
	}

	if q.Price < v.bounds.MinPrice || q.Price > v.bounds.MaxPrice {
		errs = append(errs, fmt.Sprintf("Price out of range: $%v", q.Price))
	}
	if q.Volume < v.bounds.MinVolume {
		errs = append(errs, fmt.Sprintf("Invalid volume: %d", q.Volume))
	}
	if q.Price == 0 {
		errs = append(errs, "Zero price - possible collection error")
	}

	if len(errs) > 0 {
		v.warn(q, errs)
		return Result{Valid: false, Errors: errs}
	}
	return Result{Valid: true}
}

func (v *Validator) warn(q *domain.Quote, errs []string) {
	symbol := "UNKNOWN"
	if q != nil && q.Symbol != "" {
		symbol = q.Symbol
	}
	log.Warn().Str("symbol", symbol).Strs("errors", errs).Msg("validation failed")
}
