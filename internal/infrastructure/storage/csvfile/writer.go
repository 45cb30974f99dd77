package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"stockpipe/internal/application/port"
	"stockpipe/internal/domain"
)

// Writer appends loaded batches to flat-file backups: one file per calendar
// day, plus an unbounded history file when enabled. The daily file rotates by
// name; the history file accumulates every record ever loaded.
type Writer struct {
	dir     string
	history bool
	now     func() time.Time
}

func New(dir string, history bool) *Writer {
	return &Writer{dir: dir, history: history, now: time.Now}
}

func (w *Writer) Append(batch []*domain.Quote) error {
	if len(batch) == 0 {
		return nil
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	daily := filepath.Join(w.dir, fmt.Sprintf("stock_data_%s.csv", w.now().Format("20060102")))
	if err := appendTo(daily, batch); err != nil {
		return err
	}
	log.Info().Str("file", filepath.Base(daily)).Int("records", len(batch)).Msg("csv backup written")

	if w.history {
		historyPath := filepath.Join(w.dir, "stock_data_history.csv")
		if err := appendTo(historyPath, batch); err != nil {
			return err
		}
	}
	return nil
}

func appendTo(path string, batch []*domain.Quote) error {
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if writeHeader {
		if err := cw.Write(domain.CSVHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, q := range batch {
		if err := cw.Write(q.CSVRecord()); err != nil {
			return fmt.Errorf("write record %s: %w", q.Symbol, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

var _ port.BackupWriter = (*Writer)(nil)
