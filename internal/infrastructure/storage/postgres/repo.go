package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"stockpipe/internal/application/port"
	"stockpipe/internal/domain"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// One run at a time; no pooling beyond a single connection.
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS stocks (
  symbol TEXT PRIMARY KEY,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stock_prices (
  id BIGSERIAL PRIMARY KEY,
  symbol TEXT NOT NULL REFERENCES stocks(symbol),
  ts TIMESTAMP NOT NULL,
  price DOUBLE PRECISION NOT NULL,
  volume BIGINT NOT NULL,
  latest_trading_day TEXT NOT NULL,
  previous_close DOUBLE PRECISION NOT NULL,
  change DOUBLE PRECISION NOT NULL,
  change_percent TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stock_prices_symbol ON stock_prices(symbol);
CREATE INDEX IF NOT EXISTS idx_stock_prices_ts ON stock_prices(ts);
`)
	return err
}

// SaveQuote writes the identity row (insert-if-absent, existing rows are left
// alone) and one observation row inside a single transaction.
func (r *Repo) SaveQuote(ctx context.Context, q *domain.Quote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO stocks (symbol, name) VALUES ($1, $2)
ON CONFLICT (symbol) DO NOTHING
`, q.Symbol, q.Symbol); err != nil {
		return fmt.Errorf("insert stock %s: %w", q.Symbol, err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO stock_prices
  (symbol, ts, price, volume, latest_trading_day, previous_close, change, change_percent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, q.Symbol, q.Timestamp, q.Price, q.Volume,
		q.LatestTradingDay, q.PreviousClose, q.Change, q.ChangePercent); err != nil {
		return fmt.Errorf("insert price %s: %w", q.Symbol, err)
	}

	return tx.Commit()
}

var _ port.QuoteRepository = (*Repo)(nil)
