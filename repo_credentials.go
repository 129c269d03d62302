package guard

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Credentials is the persistence surface for issued temporary credentials.
type Credentials interface {
	repository.Repository[*IssuedCredential]

	Issue(ctx context.Context, record *IssuedCredential) (*IssuedCredential, error)
	IssueTx(ctx context.Context, tx bun.IDB, record *IssuedCredential) (*IssuedCredential, error)
	Consume(ctx context.Context, id uuid.UUID) (*IssuedCredential, error)
	ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*IssuedCredential, error)
	Revoke(ctx context.Context, id uuid.UUID) (*IssuedCredential, error)
	RevokeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*IssuedCredential, error)
}

type credentials struct {
	repository.Repository[*IssuedCredential]
	db *bun.DB
}

var (
	_ Credentials                              = (*credentials)(nil)
	_ repository.Repository[*IssuedCredential] = (*credentials)(nil)
)

func NewCredentialsRepository(db *bun.DB) Credentials {
	repo := repository.NewRepository[*IssuedCredential](db, repository.ModelHandlers[*IssuedCredential]{
		NewRecord: func() *IssuedCredential { return &IssuedCredential{} },
		GetID: func(c *IssuedCredential) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *IssuedCredential, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &credentials{
		Repository: repo,
		db:         db,
	}
}

func (a *credentials) Issue(ctx context.Context, record *IssuedCredential) (*IssuedCredential, error) {
	return a.IssueTx(ctx, a.db, record)
}

func (a *credentials) IssueTx(ctx context.Context, tx bun.IDB, record *IssuedCredential) (*IssuedCredential, error) {
	prepareCredentialDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *credentials) Consume(ctx context.Context, id uuid.UUID) (*IssuedCredential, error) {
	return a.ConsumeTx(ctx, a.db, id)
}

func (a *credentials) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*IssuedCredential, error) {
	record := MarkCredentialConsumed(id)
	return a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(id.String()))
}

func (a *credentials) Revoke(ctx context.Context, id uuid.UUID) (*IssuedCredential, error) {
	return a.RevokeTx(ctx, a.db, id)
}

func (a *credentials) RevokeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*IssuedCredential, error) {
	record := &IssuedCredential{}
	record.ID = id
	record.Status = CredentialRevoked
	return a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(id.String()))
}

func prepareCredentialDefaults(record *IssuedCredential) {
	if record == nil {
		return
	}

	if record.Status == "" {
		record.Status = CredentialIssued
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
	}
}
