package guard

import (
	"context"

	"github.com/clinicore/go-guard/middleware/fiberguard"
	"github.com/clinicore/go-guard/middleware/guardware"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteGuard wires the verifier and authorizer into route middleware and
// owns the 401/403 response contract.
type RouteGuard struct {
	cfg          Config
	verifier     *Verifier
	authorizer   *Authorizer
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

// NewRouteGuard builds a RouteGuard from the gateway Config. The token
// service, verifier, and authorizer are constructed with the config's
// pinned signing setup and the default clinic ranking.
func NewRouteGuard(cfg Config) (*RouteGuard, error) {
	logger := defLogger{}

	service := NewTokenServiceFromConfig(cfg, logger)

	verifier := NewVerifier(service).WithLogger(logger)
	if scheme := cfg.GetAuthScheme(); scheme != "" {
		verifier = verifier.WithScheme(scheme)
	}

	g := &RouteGuard{
		cfg:        cfg,
		verifier:   verifier,
		authorizer: NewAuthorizer().WithLogger(logger),
		Logger:     logger,
	}

	g.ErrorHandler = g.defaultErrHandler

	return g, nil
}

// WithVerifier replaces the verifier, for hosts that build their own.
func (g *RouteGuard) WithVerifier(v *Verifier) *RouteGuard {
	if v != nil {
		g.verifier = v
	}
	return g
}

// WithAuthorizer replaces the authorizer.
func (g *RouteGuard) WithAuthorizer(a *Authorizer) *RouteGuard {
	if a != nil {
		g.authorizer = a
	}
	return g
}

// WithAuditSink routes denial and malformed token events to the sink.
func (g *RouteGuard) WithAuditSink(sink AuditSink) *RouteGuard {
	g.verifier = g.verifier.WithAuditSink(sink)
	g.authorizer = g.authorizer.WithAuditSink(sink)
	return g
}

// WithLogger sets the logger on the guard and its collaborators.
func (g *RouteGuard) WithLogger(logger Logger) *RouteGuard {
	if logger != nil {
		g.Logger = logger
		g.verifier = g.verifier.WithLogger(logger)
		g.authorizer = g.authorizer.WithLogger(logger)
	}
	return g
}

// Verifier exposes the underlying verifier.
func (g *RouteGuard) Verifier() *Verifier {
	return g.verifier
}

// Authorizer exposes the underlying authorizer.
func (g *RouteGuard) Authorizer() *Authorizer {
	return g.authorizer
}

// ProtectedRoute builds go-router middleware enforcing the given policy.
// An empty policy protects the route with authentication only.
func (g *RouteGuard) ProtectedRoute(policy Policy) router.MiddlewareFunc {
	return guardware.New(guardware.Config{
		ErrorHandler: g.handleMiddlewareError,
		ContextKey:   g.contextKey(),
		AuthScheme:   g.cfg.GetAuthScheme(),
		Verify:       g.verifyFunc(),
		Authorize:    g.authorizeFunc(policy),
		ContextEnricher: func(ctx context.Context, principal guardware.Principal) context.Context {
			if p, ok := principal.(*Principal); ok {
				return WithPrincipalContext(ctx, p)
			}
			return ctx
		},
	})
}

// ProtectedRouteFiber builds a native Fiber handler enforcing the policy.
func (g *RouteGuard) ProtectedRouteFiber(policy Policy) fiber.Handler {
	return fiberguard.New(fiberguard.Config{
		ContextKey: g.contextKey(),
		AuthScheme: g.cfg.GetAuthScheme(),
		Verify: func(ctx context.Context, raw string) (fiberguard.Principal, error) {
			return g.verifier.VerifyToken(ctx, raw)
		},
		Authorize: func(ctx context.Context, principal fiberguard.Principal, target fiberguard.Target) error {
			p, ok := principal.(*Principal)
			if !ok {
				return ErrTokenInvalid
			}
			verdict := g.authorizer.Authorize(ctx, p, policy, Target(target))
			if !verdict.Allowed() {
				return verdict.Err
			}
			return nil
		},
	})
}

// MakeClientRouteAuthErrorHandler normalizes middleware errors into the
// structured taxonomy. With optional set, failed auth proceeds to the
// handler without a principal instead of rejecting.
func (g *RouteGuard) MakeClientRouteAuthErrorHandler(optional bool) func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			richErr = ErrTokenMissing
		}

		if optional {
			g.Logger.Info("optional auth failed, proceeding: %s", richErr.Message)
			return ctx.Next()
		}

		return g.ErrorHandler(ctx, richErr)
	}
}

func (g *RouteGuard) verifyFunc() guardware.VerifyFunc {
	return func(ctx context.Context, raw string) (guardware.Principal, error) {
		return g.verifier.VerifyToken(ctx, raw)
	}
}

func (g *RouteGuard) authorizeFunc(policy Policy) guardware.AuthorizeFunc {
	if len(policy.AllowedRoles) == 0 {
		return nil
	}

	return func(ctx context.Context, principal guardware.Principal, target guardware.Target) error {
		p, ok := principal.(*Principal)
		if !ok {
			return ErrTokenInvalid
		}

		verdict := g.authorizer.Authorize(ctx, p, policy, Target(target))
		if !verdict.Allowed() {
			return verdict.Err
		}
		return nil
	}
}

func (g *RouteGuard) contextKey() string {
	if key := g.cfg.GetContextKey(); key != "" {
		return key
	}
	return DefaultContextKey
}

// handleMiddlewareError folds the middleware's raw extraction error into
// the taxonomy before the response contract is applied.
func (g *RouteGuard) handleMiddlewareError(c router.Context, err error) error {
	if errors.Is(err, guardware.ErrTokenMissingOrMalformed) {
		err = ErrTokenMissing
	}
	return g.ErrorHandler(c, err)
}

// defaultErrHandler implements the response contract: every auth failure
// is a 401 carrying its machine readable code, every authorization
// failure a generic 403 that does not reveal the required roles.
func (g *RouteGuard) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	g.Logger.Info(
		"middleware error handler: %s category=%s details=%s",
		richErr.Message,
		richErr.Category,
		print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth:
		return c.JSON(router.StatusUnauthorized, map[string]any{
			"code":    richErr.TextCode,
			"message": "unauthorized",
		})
	case errors.CategoryAuthz:
		return c.JSON(router.StatusForbidden, map[string]any{
			"message": "access denied",
		})
	default:
		code := richErr.Code
		if code == 0 {
			code = router.StatusInternalServerError
		}
		return c.JSON(code, map[string]any{
			"message": "internal server error",
		})
	}
}
