package service

import (
	"strings"
	"testing"
	"time"

	"stockpipe/internal/domain"
)

func TestTransformWellFormedQuote(t *testing.T) {
	raw := domain.RawQuote{
		"05. price":              "150.25",
		"06. volume":             "1000000",
		"07. latest trading day": "2026-03-02",
		"08. previous close":     "149.00",
		"09. change":             "1.25",
		"10. change percent":     "0.84%",
	}
	now := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)

	q, err := NewTransformer().Transform(raw, "AAPL", now)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if q.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", q.Symbol)
	}
	if q.Price != 150.25 {
		t.Errorf("price = %v, want 150.25", q.Price)
	}
	if q.Volume != 1000000 {
		t.Errorf("volume = %v, want 1000000", q.Volume)
	}
	if q.PreviousClose != 149.00 || q.Change != 1.25 {
		t.Errorf("previous_close = %v, change = %v", q.PreviousClose, q.Change)
	}
	if q.ChangePercent != "0.84" {
		t.Errorf("change_percent = %q, want \"0.84\"", q.ChangePercent)
	}
	if strings.Contains(q.ChangePercent, "%") {
		t.Error("change_percent still contains %")
	}
	if !q.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want capture time %v", q.Timestamp, now)
	}
}

func TestTransformDefaultsMissingFields(t *testing.T) {
	// Only price present: everything else resolves to its zero default.
	raw := domain.RawQuote{"05. price": "42.5"}

	q, err := NewTransformer().Transform(raw, "MSFT", time.Now())
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if q.Price != 42.5 {
		t.Errorf("price = %v, want 42.5", q.Price)
	}
	if q.Volume != 0 || q.PreviousClose != 0 || q.Change != 0 {
		t.Errorf("expected zero defaults, got %+v", q)
	}
	if q.LatestTradingDay != "" {
		t.Errorf("latest_trading_day = %q, want empty", q.LatestTradingDay)
	}
	if q.ChangePercent != "0" {
		t.Errorf("change_percent = %q, want \"0\"", q.ChangePercent)
	}
}

func TestTransformFailsOnUnparseableValue(t *testing.T) {
	cases := []domain.RawQuote{
		{"05. price": "not-a-price"},
		{"05. price": "10", "06. volume": "lots"},
		{"05. price": "10", "09. change": "n/a"},
	}
	for _, raw := range cases {
		if _, err := NewTransformer().Transform(raw, "TSLA", time.Now()); err == nil {
			t.Errorf("expected error for %v", raw)
		}
	}
}
