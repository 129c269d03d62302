package guard

import (
	"context"

	"github.com/goliatone/go-router"
)

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// DefaultContextKey is where middleware stores the principal in router locals.
const DefaultContextKey = "principal"

// WithPrincipalContext sets the Principal in the given context
func WithPrincipalContext(r context.Context, principal *Principal) context.Context {
	return context.WithValue(r, principalCtxKey, principal)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*Principal)
	return raw, ok
}

// GetRouterPrincipal extracts the Principal from the router context
func GetRouterPrincipal(ctx router.Context, key string) (*Principal, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	principal, ok := raw.(*Principal)
	return principal, ok
}

// HasRole is a convenience check against the principal in the standard context.
func HasRole(ctx context.Context, role Role) bool {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return false
	}
	return principal.Role == role
}

// IsAtLeast checks the principal's rank against a minimum role using the
// default ranking.
func IsAtLeast(ctx context.Context, minRole Role) bool {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return false
	}
	return DefaultRoleRanking().AtLeast(principal.Role, minRole)
}
