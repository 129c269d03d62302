package guard

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the structured claims carried by an access token
type TokenClaims interface {
	Subject() string
	UserID() string
	Role() string
	TokenID() string
	HasRole(role string) bool
	Expires() time.Time
	IssuedAt() time.Time
	ClaimsMetadata() map[string]any
}

// AccessClaims is the concrete implementation of TokenClaims
type AccessClaims struct {
	jwt.RegisteredClaims
	UID      string         `json:"uid,omitempty"`
	UserRole string         `json:"role,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"` // extension payload
}

// Verify interface compliance
var _ TokenClaims = (*AccessClaims)(nil)

// Subject returns the subject claim
func (c *AccessClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID, falling back to the subject claim
func (c *AccessClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Role returns the clinic role
func (c *AccessClaims) Role() string {
	return c.UserRole
}

// TokenID returns the jti claim
func (c *AccessClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// HasRole checks if the token carries a specific role
func (c *AccessClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// ClaimsMetadata exposes metadata extensions for optional context enrichment.
func (c *AccessClaims) ClaimsMetadata() map[string]any {
	return c.Metadata
}

// Expires returns the expiration time
func (c *AccessClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *AccessClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Complete reports whether the token carries both identifiers the gateway
// requires: a non empty user id and a role.
func (c *AccessClaims) Complete() bool {
	return c.UserID() != "" && c.UserRole != ""
}
