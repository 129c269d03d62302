package guard

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Credentials() Credentials
	AuditRecords() repository.Repository[*AuditRecord]
}

func NewAuditRecordsRepository(db *bun.DB) repository.Repository[*AuditRecord] {
	handlers := repository.ModelHandlers[*AuditRecord]{
		NewRecord: func() *AuditRecord {
			return &AuditRecord{}
		},
		GetID: func(record *AuditRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *AuditRecord, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "subject"
		},
	}
	return repository.NewRepository(db, handlers)
}

type mngr struct {
	db           *bun.DB
	credentials  Credentials
	auditRecords repository.Repository[*AuditRecord]
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:           db,
		credentials:  NewCredentialsRepository(db),
		auditRecords: NewAuditRecordsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.credentials == nil {
		return errors.New("repository credentials should be initialized")
	}

	if m.auditRecords == nil {
		return errors.New("repository auditRecords should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Credentials() Credentials {
	return m.credentials
}

func (m mngr) AuditRecords() repository.Repository[*AuditRecord] {
	return m.auditRecords
}
