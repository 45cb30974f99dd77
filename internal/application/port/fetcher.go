package port

import (
	"context"

	"stockpipe/internal/domain"
)

// QuoteFetcher extracts one raw quote from the provider. Implementations
// return ErrUnavailable-wrapped errors for transport and payload problems;
// the caller decides whether to skip the symbol.
type QuoteFetcher interface {
	Fetch(ctx context.Context, symbol string) (domain.RawQuote, error)
}
