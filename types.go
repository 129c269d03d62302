package guard

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity is the subject a token is minted for
type Identity interface {
	ID() string
	Role() string
}

// Config holds gateway options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenExpiration() int
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

// TokenService mints and validates access tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *AccessClaims) (string, error)
	Validate(token string) (TokenClaims, error)
}

// TokenValidator is the validation-only slice of TokenService
type TokenValidator interface {
	Validate(token string) (TokenClaims, error)
}

// TokenVerifier resolves a raw Authorization header into a Principal
type TokenVerifier interface {
	VerifyHeader(ctx context.Context, header string) (*Principal, error)
}

// CredentialHasher hashes and checks stored credentials
type CredentialHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GUARD "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GUARD "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GUARD "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GUARD "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
