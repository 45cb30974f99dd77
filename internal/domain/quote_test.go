package domain

import (
	"testing"
	"time"
)

func TestQuoteCSVRoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	q := &Quote{
		Timestamp:        ts,
		Symbol:           "AAPL",
		Price:            150.25,
		Volume:           1000000,
		LatestTradingDay: "2026-03-02",
		PreviousClose:    149.00,
		Change:           1.25,
		ChangePercent:    "0.84",
	}

	rec := q.CSVRecord()
	if len(rec) != len(CSVHeader) {
		t.Fatalf("record has %d fields, want %d", len(rec), len(CSVHeader))
	}

	got, err := QuoteFromCSVRecord(rec)
	if err != nil {
		t.Fatalf("QuoteFromCSVRecord failed: %v", err)
	}

	if !got.Timestamp.Equal(q.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, q.Timestamp)
	}
	if got.Symbol != q.Symbol || got.Price != q.Price || got.Volume != q.Volume {
		t.Errorf("got %+v, want %+v", got, q)
	}
	if got.LatestTradingDay != q.LatestTradingDay || got.PreviousClose != q.PreviousClose {
		t.Errorf("got %+v, want %+v", got, q)
	}
	if got.Change != q.Change || got.ChangePercent != q.ChangePercent {
		t.Errorf("got %+v, want %+v", got, q)
	}
}

func TestQuoteFromCSVRecordRejectsBadInput(t *testing.T) {
	if _, err := QuoteFromCSVRecord([]string{"too", "short"}); err == nil {
		t.Error("expected error for short record")
	}

	rec := []string{"2026-03-02 14:30:00", "AAPL", "not-a-number", "1000", "", "0", "0", "0.84"}
	if _, err := QuoteFromCSVRecord(rec); err == nil {
		t.Error("expected error for non-numeric price")
	}
}
