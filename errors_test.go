package guard_test

import (
	"fmt"
	"testing"

	"github.com/clinicore/go-guard"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		category goerrors.Category
		textCode string
		code     int
	}{
		{"token missing", guard.ErrTokenMissing, goerrors.CategoryAuth, guard.TextCodeTokenMissing, goerrors.CodeUnauthorized},
		{"token invalid", guard.ErrTokenInvalid, goerrors.CategoryAuth, guard.TextCodeTokenInvalid, goerrors.CodeUnauthorized},
		{"token expired", guard.ErrTokenExpired, goerrors.CategoryAuth, guard.TextCodeTokenExpired, goerrors.CodeUnauthorized},
		{"token not yet valid", guard.ErrTokenNotYetValid, goerrors.CategoryAuth, guard.TextCodeTokenNotYetValid, goerrors.CodeUnauthorized},
		{"strict role mismatch", guard.ErrStrictRoleMismatch, goerrors.CategoryAuthz, guard.TextCodeStrictRoleMismatch, goerrors.CodeForbidden},
		{"insufficient role", guard.ErrInsufficientRole, goerrors.CategoryAuthz, guard.TextCodeInsufficientRole, goerrors.CodeForbidden},
		{"credential length", guard.ErrInvalidCredentialLength, goerrors.CategoryValidation, guard.TextCodeCredentialLength, goerrors.CodeBadRequest},
		{"entropy failure", guard.ErrEntropyFailure, goerrors.CategoryInternal, guard.TextCodeEntropyFailure, goerrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestExpiredCodeIsDistinct(t *testing.T) {
	codes := []string{
		guard.TextCodeTokenMissing,
		guard.TextCodeTokenInvalid,
		guard.TextCodeTokenNotYetValid,
		guard.TextCodeStrictRoleMismatch,
		guard.TextCodeInsufficientRole,
	}

	for _, code := range codes {
		assert.NotEqual(t, guard.TextCodeTokenExpired, code)
	}
}

func TestTextCodeOf(t *testing.T) {
	t.Run("structured error", func(t *testing.T) {
		assert.Equal(t, guard.TextCodeTokenExpired, guard.TextCodeOf(guard.ErrTokenExpired))
	})

	t.Run("wrapped structured error", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", guard.ErrTokenExpired)
		assert.Equal(t, guard.TextCodeTokenExpired, guard.TextCodeOf(err))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.Empty(t, guard.TextCodeOf(fmt.Errorf("boom")))
	})

	t.Run("nil error", func(t *testing.T) {
		assert.Empty(t, guard.TextCodeOf(nil))
	})
}

func TestErrorPredicates(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		assert.True(t, guard.IsUnauthenticatedError(guard.ErrTokenMissing))
		assert.True(t, guard.IsUnauthenticatedError(guard.ErrTokenExpired))
		assert.False(t, guard.IsUnauthenticatedError(guard.ErrInsufficientRole))
		assert.False(t, guard.IsUnauthenticatedError(fmt.Errorf("boom")))
	})

	t.Run("denied", func(t *testing.T) {
		assert.True(t, guard.IsDeniedError(guard.ErrStrictRoleMismatch))
		assert.True(t, guard.IsDeniedError(guard.ErrInsufficientRole))
		assert.False(t, guard.IsDeniedError(guard.ErrTokenMissing))
	})

	t.Run("token expired", func(t *testing.T) {
		assert.True(t, guard.IsTokenExpiredError(guard.ErrTokenExpired))
		assert.False(t, guard.IsTokenExpiredError(guard.ErrTokenInvalid))
	})

	t.Run("token missing", func(t *testing.T) {
		assert.True(t, guard.IsTokenMissingError(guard.ErrTokenMissing))
		assert.False(t, guard.IsTokenMissingError(guard.ErrTokenInvalid))
	})
}
