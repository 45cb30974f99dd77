package port

import (
	"context"

	"stockpipe/internal/domain"
)

// LatestCache publishes the most recent quote per symbol for cheap reads.
type LatestCache interface {
	SetLatest(ctx context.Context, batch []*domain.Quote) error
}
