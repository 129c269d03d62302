package guard

import "github.com/goliatone/go-errors"

const (
	TextCodeTokenMissing       = "auth_token_missing"
	TextCodeTokenInvalid       = "auth_token_invalid"
	TextCodeTokenExpired       = "auth_token_expired"
	TextCodeTokenNotYetValid   = "auth_token_not_yet_valid"
	TextCodeStrictRoleMismatch = "authz_strict_role_mismatch"
	TextCodeInsufficientRole   = "authz_insufficient_role"
	TextCodeInvalidCredentials = "invalid_credentials"
	TextCodeEmptyPassword      = "credential_empty"
	TextCodeCredentialLength   = "credential_invalid_length"
	TextCodeCharClass          = "credential_invalid_char_class"
	TextCodeEntropyFailure     = "entropy_failure"
)

// ErrTokenMissing is returned when a request carries no usable bearer token.
var ErrTokenMissing = errors.New("missing or malformed authorization token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMissing).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid is returned when a token fails signature or claim checks.
var ErrTokenInvalid = errors.New("invalid or expired session token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens past their expiry. Clients treat
// this code as a signal to refresh rather than to re-login.
var ErrTokenExpired = errors.New("token has expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenNotYetValid is returned for tokens used before their nbf claim.
var ErrTokenNotYetValid = errors.New("token not valid yet", errors.CategoryAuth).
	WithTextCode(TextCodeTokenNotYetValid).
	WithCode(errors.CodeUnauthorized)

// ErrStrictRoleMismatch is returned when a strict policy rejects a role
// that is not an exact member of the allowed set.
var ErrStrictRoleMismatch = errors.New("role not permitted for this resource", errors.CategoryAuthz).
	WithTextCode(TextCodeStrictRoleMismatch).
	WithCode(errors.CodeForbidden)

// ErrInsufficientRole is returned when the principal's rank is below the
// weakest allowed role for the route.
var ErrInsufficientRole = errors.New("insufficient role for this resource", errors.CategoryAuthz).
	WithTextCode(TextCodeInsufficientRole).
	WithCode(errors.CodeForbidden)

// ErrMismatchedHashAndPassword is returned when a credential does not match
// its stored hash.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyPassword is returned when an empty credential is hashed or compared.
var ErrNoEmptyPassword = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentialLength is returned when a requested credential is too
// short to cover every character class.
var ErrInvalidCredentialLength = errors.New("credential length cannot cover required character classes", errors.CategoryValidation).
	WithTextCode(TextCodeCredentialLength).
	WithCode(errors.CodeBadRequest)

// ErrInvalidCharClass is returned when a caller supplies an empty character class.
var ErrInvalidCharClass = errors.New("character classes must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeCharClass).
	WithCode(errors.CodeBadRequest)

// ErrEntropyFailure is returned when the system entropy source fails. It is
// not recoverable and callers must abort the operation.
var ErrEntropyFailure = errors.New("system entropy source failed", errors.CategoryInternal).
	WithTextCode(TextCodeEntropyFailure).
	WithCode(errors.CodeInternal)

// TextCodeOf extracts the machine readable code from a structured error.
func TextCodeOf(err error) string {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}

// IsUnauthenticatedError reports whether err maps to a 401 response.
func IsUnauthenticatedError(err error) bool {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.Category == errors.CategoryAuth
	}
	return false
}

// IsDeniedError reports whether err maps to a 403 response.
func IsDeniedError(err error) bool {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.Category == errors.CategoryAuthz
	}
	return false
}

// IsTokenExpiredError reports whether err carries the expired token code.
func IsTokenExpiredError(err error) bool {
	return TextCodeOf(err) == TextCodeTokenExpired
}

// IsTokenMissingError reports whether err carries the missing token code.
func IsTokenMissingError(err error) bool {
	return TextCodeOf(err) == TextCodeTokenMissing
}
