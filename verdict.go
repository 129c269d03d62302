package guard

import "github.com/goliatone/go-errors"

// VerdictKind classifies an authorization outcome
type VerdictKind int

const (
	// VerdictAllow lets the request proceed
	VerdictAllow VerdictKind = iota
	// VerdictDeny rejects an authenticated principal, 403
	VerdictDeny
	// VerdictUnauthenticated rejects a request with no usable identity, 401
	VerdictUnauthenticated
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictAllow:
		return "allow"
	case VerdictDeny:
		return "deny"
	case VerdictUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of evaluating a policy for one request. Reason
// carries the machine readable code for rejections and is empty on allow.
type Verdict struct {
	Kind   VerdictKind
	Reason string
	Err    *errors.Error
}

// Allowed reports whether the request may proceed.
func (v Verdict) Allowed() bool {
	return v.Kind == VerdictAllow
}

// Allow builds the passing verdict.
func Allow() Verdict {
	return Verdict{Kind: VerdictAllow}
}

// Deny builds a 403 verdict from a structured authorization error.
func Deny(err *errors.Error) Verdict {
	return Verdict{Kind: VerdictDeny, Reason: err.TextCode, Err: err}
}

// Unauthenticated builds a 401 verdict from a structured auth error.
func Unauthenticated(err *errors.Error) Verdict {
	return Verdict{Kind: VerdictUnauthenticated, Reason: err.TextCode, Err: err}
}
