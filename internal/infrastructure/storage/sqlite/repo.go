package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"stockpipe/internal/application/port"
	"stockpipe/internal/domain"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
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
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  symbol TEXT NOT NULL,
  ts TEXT NOT NULL,
  price REAL NOT NULL,
  volume INTEGER NOT NULL,
  latest_trading_day TEXT NOT NULL,
  previous_close REAL NOT NULL,
  change REAL NOT NULL,
  change_percent TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stock_prices_symbol ON stock_prices(symbol);
CREATE INDEX IF NOT EXISTS idx_stock_prices_ts ON stock_prices(ts);
`)
	return err
}

func (r *Repo) SaveQuote(ctx context.Context, q *domain.Quote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO stocks (symbol, name) VALUES (?, ?)
ON CONFLICT (symbol) DO NOTHING
`, q.Symbol, q.Symbol); err != nil {
		return fmt.Errorf("insert stock %s: %w", q.Symbol, err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO stock_prices
  (symbol, ts, price, volume, latest_trading_day, previous_close, change, change_percent)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, q.Symbol, q.Timestamp.Format(domain.TimestampLayout), q.Price, q.Volume,
		q.LatestTradingDay, q.PreviousClose, q.Change, q.ChangePercent); err != nil {
		return fmt.Errorf("insert price %s: %w", q.Symbol, err)
	}

	return tx.Commit()
}

// CountPrices reports observation rows for a symbol.
func (r *Repo) CountPrices(ctx context.Context, symbol string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stock_prices WHERE symbol = ?`, symbol).Scan(&n)
	return n, err
}

var _ port.QuoteRepository = (*Repo)(nil)
