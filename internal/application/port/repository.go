package port

import (
	"context"

	"stockpipe/internal/domain"
)

// QuoteRepository persists normalized quotes in the relational sink.
type QuoteRepository interface {
	// SaveQuote upserts the stock identity row and appends one price
	// observation, atomically per record.
	SaveQuote(ctx context.Context, q *domain.Quote) error

	Close() error
}
