package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"stockpipe/internal/domain"
)

type mockRepo struct {
	saved   []string
	failOn  string
	failErr error
}

func (m *mockRepo) SaveQuote(ctx context.Context, q *domain.Quote) error {
	if q.Symbol == m.failOn {
		return m.failErr
	}
	m.saved = append(m.saved, q.Symbol)
	return nil
}

func (m *mockRepo) Close() error { return nil }

type mockBackup struct {
	batches [][]*domain.Quote
	err     error
}

func (m *mockBackup) Append(batch []*domain.Quote) error {
	m.batches = append(m.batches, batch)
	return m.err
}

type mockAlerter struct {
	messages []string
}

func (m *mockAlerter) Alert(msg string) { m.messages = append(m.messages, msg) }

type mockCache struct {
	batches [][]*domain.Quote
	err     error
}

func (m *mockCache) SetLatest(ctx context.Context, batch []*domain.Quote) error {
	m.batches = append(m.batches, batch)
	return m.err
}

func quote(symbol string) *domain.Quote {
	return &domain.Quote{
		Timestamp: time.Now(),
		Symbol:    symbol,
		Price:     100,
		Volume:    1000,
	}
}

func TestLoadWritesAllSinks(t *testing.T) {
	repo := &mockRepo{}
	backup := &mockBackup{}
	alerter := &mockAlerter{}
	cache := &mockCache{}

	batch := []*domain.Quote{quote("AAPL"), quote("MSFT")}
	if err := NewLoader(repo, backup, cache, alerter).Load(context.Background(), batch); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(repo.saved) != 2 {
		t.Errorf("saved = %v, want both symbols", repo.saved)
	}
	if len(backup.batches) != 1 || len(backup.batches[0]) != 2 {
		t.Errorf("backup batches = %v", backup.batches)
	}
	if len(cache.batches) != 1 {
		t.Errorf("cache batches = %v", cache.batches)
	}
	if len(alerter.messages) != 0 {
		t.Errorf("unexpected alerts: %v", alerter.messages)
	}
}

func TestLoadDatabaseFailureAbortsAndPropagates(t *testing.T) {
	dbErr := errors.New("deadlock")
	repo := &mockRepo{failOn: "MSFT", failErr: dbErr}
	backup := &mockBackup{}
	alerter := &mockAlerter{}

	batch := []*domain.Quote{quote("AAPL"), quote("MSFT"), quote("GOOGL")}
	err := NewLoader(repo, backup, nil, alerter).Load(context.Background(), batch)
	if !errors.Is(err, dbErr) {
		t.Fatalf("err = %v, want database failure", err)
	}

	// GOOGL is never attempted and the backup never runs.
	if len(repo.saved) != 1 || repo.saved[0] != "AAPL" {
		t.Errorf("saved = %v, want [AAPL]", repo.saved)
	}
	if len(backup.batches) != 0 {
		t.Error("backup must not run after a database failure")
	}
	if len(alerter.messages) != 1 || !strings.Contains(alerter.messages[0], "Failed to load data") {
		t.Errorf("alerts = %v", alerter.messages)
	}
}

func TestLoadBackupFailureAlertsButSucceeds(t *testing.T) {
	repo := &mockRepo{}
	backup := &mockBackup{err: errors.New("disk full")}
	alerter := &mockAlerter{}

	batch := []*domain.Quote{quote("AAPL")}
	if err := NewLoader(repo, backup, nil, alerter).Load(context.Background(), batch); err != nil {
		t.Fatalf("backup failure must not fail the load: %v", err)
	}
	if len(alerter.messages) != 1 || !strings.Contains(alerter.messages[0], "CSV backup failed") {
		t.Errorf("alerts = %v", alerter.messages)
	}
}

func TestLoadCacheFailureIsIgnored(t *testing.T) {
	repo := &mockRepo{}
	backup := &mockBackup{}
	alerter := &mockAlerter{}
	cache := &mockCache{err: errors.New("redis down")}

	if err := NewLoader(repo, backup, cache, alerter).Load(context.Background(), []*domain.Quote{quote("AAPL")}); err != nil {
		t.Fatalf("cache failure must not fail the load: %v", err)
	}
	if len(alerter.messages) != 0 {
		t.Errorf("cache failure must not alert, got %v", alerter.messages)
	}
}

func TestLoadEmptyBatchIsNoop(t *testing.T) {
	repo := &mockRepo{}
	backup := &mockBackup{}

	if err := NewLoader(repo, backup, nil, &mockAlerter{}).Load(context.Background(), nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(repo.saved) != 0 || len(backup.batches) != 0 {
		t.Error("empty batch must not touch the sinks")
	}
}
