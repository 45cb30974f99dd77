package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"stockpipe/internal/application/port"
	"stockpipe/internal/domain"
)

// Cache keeps the most recent quote per symbol in a redis hash so dashboards
// can read the latest observation without touching the relational sink.
type Cache struct {
	rdb       *redis.Client
	keyLatest string
	ttl       time.Duration
}

type latestQuote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Volume        int64   `json:"volume"`
	ChangePercent string  `json:"change_percent"`
	Ts            int64   `json:"ts"`
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		rdb:       rdb,
		keyLatest: prefix + ":latest",
		ttl:       ttl,
	}
}

func (c *Cache) SetLatest(ctx context.Context, batch []*domain.Quote) error {
	if len(batch) == 0 {
		return nil
	}

	pipe := c.rdb.Pipeline()
	for _, q := range batch {
		lq := latestQuote{
			Symbol:        q.Symbol,
			Price:         q.Price,
			Volume:        q.Volume,
			ChangePercent: q.ChangePercent,
			Ts:            q.Timestamp.Unix(),
		}
		b, _ := json.Marshal(lq)
		pipe.HSet(ctx, c.keyLatest, q.Symbol, string(b))
	}
	if c.ttl > 0 {
		pipe.Expire(ctx, c.keyLatest, c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

var _ port.LatestCache = (*Cache)(nil)
