package guard_test

import (
	"testing"
	"time"

	"github.com/clinicore/go-guard"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuedCredentialIsUsable(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name      string
		status    guard.CredentialStatus
		expiresAt *time.Time
		usable    bool
	}{
		{name: "issued and unexpired", status: guard.CredentialIssued, expiresAt: &future, usable: true},
		{name: "issued without expiry", status: guard.CredentialIssued, usable: true},
		{name: "issued but expired", status: guard.CredentialIssued, expiresAt: &past, usable: false},
		{name: "consumed", status: guard.CredentialConsumed, expiresAt: &future, usable: false},
		{name: "revoked", status: guard.CredentialRevoked, expiresAt: &future, usable: false},
		{name: "expired status", status: guard.CredentialExpired, usable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred := &guard.IssuedCredential{
				Status:    tt.status,
				ExpiresAt: tt.expiresAt,
			}
			assert.Equal(t, tt.usable, cred.IsUsable(now))
		})
	}
}

func TestMarkCredentialConsumed(t *testing.T) {
	id := uuid.New()
	record := guard.MarkCredentialConsumed(id)

	assert.Equal(t, id, record.ID)
	assert.Equal(t, guard.CredentialConsumed, record.Status)
	require.NotNil(t, record.ConsumedAt)
	assert.WithinDuration(t, time.Now(), *record.ConsumedAt, time.Second)
}
