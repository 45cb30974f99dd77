package port

import "stockpipe/internal/domain"

// BackupWriter appends a loaded batch to the flat-file backup.
type BackupWriter interface {
	Append(batch []*domain.Quote) error
}
