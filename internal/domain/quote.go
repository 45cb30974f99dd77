package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Provider field keys for the GLOBAL_QUOTE payload.
const (
	KeyPrice            = "05. price"
	KeyVolume           = "06. volume"
	KeyLatestTradingDay = "07. latest trading day"
	KeyPreviousClose    = "08. previous close"
	KeyChange           = "09. change"
	KeyChangePercent    = "10. change percent"
)

// RawQuote is the untyped field mapping returned by the quote provider.
// It lives only between extraction and transformation.
type RawQuote map[string]string

// Quote is the normalized record that moves through the pipeline.
// Timestamp is the capture time, not the provider's trading timestamp.
type Quote struct {
	Timestamp        time.Time
	Symbol           string
	Price            float64
	Volume           int64
	LatestTradingDay string
	PreviousClose    float64
	Change           float64
	ChangePercent    string // "%" already stripped
}

// TimestampLayout is the wire format for Quote timestamps in CSV and SQL.
const TimestampLayout = "2006-01-02 15:04:05"

// CSVHeader is the column order used by the flat-file backup.
var CSVHeader = []string{
	"timestamp", "symbol", "price", "volume",
	"latest_trading_day", "previous_close", "change", "change_percent",
}

// CSVRecord renders the quote as one CSV row in CSVHeader order.
func (q *Quote) CSVRecord() []string {
	return []string{
		q.Timestamp.Format(TimestampLayout),
		q.Symbol,
		strconv.FormatFloat(q.Price, 'f', -1, 64),
		strconv.FormatInt(q.Volume, 10),
		q.LatestTradingDay,
		strconv.FormatFloat(q.PreviousClose, 'f', -1, 64),
		strconv.FormatFloat(q.Change, 'f', -1, 64),
		q.ChangePercent,
	}
}

// QuoteFromCSVRecord parses a row previously written by CSVRecord.
func QuoteFromCSVRecord(rec []string) (*Quote, error) {
	if len(rec) != len(CSVHeader) {
		return nil, fmt.Errorf("csv record has %d fields, want %d", len(rec), len(CSVHeader))
	}
	ts, err := time.Parse(TimestampLayout, rec[0])
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", rec[0], err)
	}
	price, err := strconv.ParseFloat(rec[2], 64)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", rec[2], err)
	}
	volume, err := strconv.ParseInt(rec[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse volume %q: %w", rec[3], err)
	}
	prevClose, err := strconv.ParseFloat(rec[5], 64)
	if err != nil {
		return nil, fmt.Errorf("parse previous_close %q: %w", rec[5], err)
	}
	change, err := strconv.ParseFloat(rec[6], 64)
	if err != nil {
		return nil, fmt.Errorf("parse change %q: %w", rec[6], err)
	}
	return &Quote{
		Timestamp:        ts,
		Symbol:           rec[1],
		Price:            price,
		Volume:           volume,
		LatestTradingDay: rec[4],
		PreviousClose:    prevClose,
		Change:           change,
		ChangePercent:    rec[7],
	}, nil
}
