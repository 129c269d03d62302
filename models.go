package guard

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CredentialStatus tracks the lifecycle of a temporary credential
type CredentialStatus = string

const (
	// CredentialIssued means the credential is live and unused
	CredentialIssued CredentialStatus = "issued"
	// CredentialConsumed means the credential was used to sign in
	CredentialConsumed CredentialStatus = "consumed"
	// CredentialRevoked means an operator invalidated the credential
	CredentialRevoked CredentialStatus = "revoked"
	// CredentialExpired means the credential aged out unused
	CredentialExpired CredentialStatus = "expired"
)

// IssuedCredential records one temporary credential. Only the bcrypt hash
// is stored; the plaintext leaves the process exactly once at issuance.
type IssuedCredential struct {
	bun.BaseModel  `bun:"table:issued_credentials,alias:cred"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID         *uuid.UUID `bun:"user_id" json:"user_id,omitempty"`
	Email          string     `bun:"email,notnull" json:"email,omitempty"`
	CredentialHash string     `bun:"credential_hash,notnull" json:"-"`
	Status         string     `bun:"status,notnull" json:"status,omitempty"`
	ExpiresAt      *time.Time `bun:"expires_at,nullzero" json:"expires_at,omitempty"`
	ConsumedAt     *time.Time `bun:"consumed_at,nullzero" json:"consumed_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// MarkCredentialConsumed builds the partial record for flipping a
// credential to consumed.
func MarkCredentialConsumed(id uuid.UUID) *IssuedCredential {
	c := &IssuedCredential{}
	c.ID = id
	c.Status = CredentialConsumed
	n := time.Now()
	c.ConsumedAt = &n
	return c
}

// IsUsable reports whether the credential can still be redeemed at the
// given instant.
func (c *IssuedCredential) IsUsable(now time.Time) bool {
	if c.Status != CredentialIssued {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	return true
}

// AuditRecord is the persisted form of an AuditEvent. Required roles ride
// in metadata so the row shape stays stable across policy changes.
type AuditRecord struct {
	bun.BaseModel `bun:"table:audit_records,alias:adr"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	EventType     string         `bun:"event_type,notnull" json:"event_type,omitempty"`
	Subject       string         `bun:"subject" json:"subject,omitempty"`
	RoleAttempted string         `bun:"role_attempted" json:"role_attempted,omitempty"`
	Resource      string         `bun:"resource" json:"resource,omitempty"`
	Method        string         `bun:"method" json:"method,omitempty"`
	Reason        string         `bun:"reason" json:"reason,omitempty"`
	Metadata      map[string]any `bun:"metadata" json:"metadata,omitempty"`
	OccurredAt    *time.Time     `bun:"occurred_at,nullzero" json:"occurred_at,omitempty"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// NewAuditRecord maps an AuditEvent onto its persisted form.
func NewAuditRecord(event AuditEvent) *AuditRecord {
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	metadata := make(map[string]any, len(event.Metadata)+1)
	for k, v := range event.Metadata {
		metadata[k] = v
	}
	if len(event.RequiredRoles) > 0 {
		metadata["required_roles"] = event.RequiredRoles
	}

	return &AuditRecord{
		ID:            uuid.New(),
		EventType:     string(event.EventType),
		Subject:       event.Subject,
		RoleAttempted: string(event.Role),
		Resource:      event.Resource,
		Method:        event.Method,
		Reason:        event.Reason,
		Metadata:      metadata,
		OccurredAt:    &occurredAt,
	}
}
