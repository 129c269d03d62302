package guard

import (
	"context"

	"github.com/goliatone/go-errors"
)

// BunAuditSink persists audit events through the repository manager.
// Pair it with AuditDispatcher to keep database latency off the request
// path.
type BunAuditSink struct {
	repo   RepositoryManager
	logger Logger
}

// NewBunAuditSink creates a sink writing to the audit_records table.
func NewBunAuditSink(repo RepositoryManager) *BunAuditSink {
	return &BunAuditSink{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger sets the logger.
func (s *BunAuditSink) WithLogger(logger Logger) *BunAuditSink {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Record implements AuditSink.
func (s *BunAuditSink) Record(ctx context.Context, event AuditEvent) error {
	record := NewAuditRecord(event)

	if _, err := s.repo.AuditRecords().Create(ctx, record); err != nil {
		s.logger.Error("failed to persist audit record %s: %v", record.EventType, err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to persist audit record")
	}

	return nil
}
