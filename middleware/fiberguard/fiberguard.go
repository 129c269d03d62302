// Package fiberguard adapts the guard verification and authorization
// pipeline to native Fiber handlers, for hosts that mount the gateway
// directly on a fiber.App instead of go-router.
package fiberguard

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// ErrTokenMissingOrMalformed is returned when no usable bearer token can
// be extracted from the request.
var ErrTokenMissingOrMalformed = errors.New("missing or malformed authorization token")

// Principal mirrors the verified identity from the guard package without
// creating an import cycle.
type Principal interface {
	ID() string
	RoleName() string
}

// Target identifies the resource a request was aimed at.
type Target struct {
	Resource string
	Method   string
}

// VerifyFunc resolves a raw bearer token into a Principal.
type VerifyFunc func(ctx context.Context, rawToken string) (Principal, error)

// AuthorizeFunc evaluates the route policy for a verified principal.
type AuthorizeFunc func(ctx context.Context, principal Principal, target Target) error

type Config struct {
	Filter         func(*fiber.Ctx) bool
	SuccessHandler fiber.Handler
	ErrorHandler   func(*fiber.Ctx, error) error
	ContextKey     string
	AuthScheme     string

	// Verify is required and performs token verification
	Verify VerifyFunc

	// Authorize is optional; when nil the route is authentication only
	Authorize AuthorizeFunc
}

// New builds the Fiber middleware handler.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := tokenFromHeader(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		principal, err := cfg.Verify(c.UserContext(), raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if cfg.Authorize != nil {
			target := Target{Resource: c.Path(), Method: c.Method()}
			if err := cfg.Authorize(c.UserContext(), principal, target); err != nil {
				return cfg.ErrorHandler(c, err)
			}
		}

		c.Locals(cfg.ContextKey, principal)

		return cfg.SuccessHandler(c)
	}
}

func configDefault(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	if cfg.Verify == nil {
		panic("GUARD: fiber middleware configuration: Verify is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "principal"
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// defaultErrorHandler maps structured guard errors onto the gateway's
// response contract: 401 with the machine readable code for auth
// failures, generic 403 for authorization failures.
func defaultErrorHandler(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		switch richErr.Category {
		case goerrors.CategoryAuth:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    richErr.TextCode,
				"message": "unauthorized",
			})
		case goerrors.CategoryAuthz:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "access denied",
			})
		}
	}

	if errors.Is(err, ErrTokenMissingOrMalformed) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"code":    "auth_token_missing",
			"message": "unauthorized",
		})
	}

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "unauthorized",
	})
}

func tokenFromHeader(header, authScheme string) (string, error) {
	l := len(authScheme)
	if l == 0 {
		return "", ErrTokenMissingOrMalformed
	}
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		return strings.TrimSpace(header[l:]), nil
	}
	return "", ErrTokenMissingOrMalformed
}
