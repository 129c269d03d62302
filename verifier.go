package guard

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// DefaultAuthScheme is the Authorization scheme expected by the verifier.
const DefaultAuthScheme = "Bearer"

// Clients in the wild serialize absent tokens as these literals. They are
// treated the same as a missing header.
var sentinelTokens = map[string]struct{}{
	"":          {},
	"null":      {},
	"undefined": {},
}

// Verifier walks a raw Authorization header through presence, signature,
// temporal, and claim completeness checks, producing a Principal on
// success. Missing token probes are never logged or audited; invalid
// tokens are, with the uid only.
type Verifier struct {
	service TokenValidator
	scheme  string
	sink    AuditSink
	logger  Logger
}

// NewVerifier creates a Verifier over the given token validator.
func NewVerifier(service TokenValidator) *Verifier {
	return &Verifier{
		service: service,
		scheme:  DefaultAuthScheme,
		sink:    noopAuditSink{},
		logger:  defLogger{},
	}
}

// WithScheme overrides the Authorization scheme.
func (v *Verifier) WithScheme(scheme string) *Verifier {
	if scheme != "" {
		v.scheme = scheme
	}
	return v
}

// WithAuditSink sets the sink that receives malformed token events.
func (v *Verifier) WithAuditSink(sink AuditSink) *Verifier {
	v.sink = normalizeAuditSink(sink)
	return v
}

// WithLogger sets the logger.
func (v *Verifier) WithLogger(logger Logger) *Verifier {
	if logger != nil {
		v.logger = logger
	}
	return v
}

// VerifyHeader resolves the raw Authorization header value into a
// Principal. Absent header, wrong scheme, empty token, and the null or
// undefined sentinels all return ErrTokenMissing. Everything else is
// delegated to the token service and mapped to the structured auth errors.
func (v *Verifier) VerifyHeader(ctx context.Context, header string) (*Principal, error) {
	raw, ok := v.tokenFromHeader(header)
	if !ok {
		return nil, ErrTokenMissing
	}

	return v.VerifyToken(ctx, raw)
}

// VerifyToken resolves an already extracted raw token into a Principal.
// The null and undefined sentinels still count as missing credentials.
func (v *Verifier) VerifyToken(ctx context.Context, raw string) (*Principal, error) {
	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.CategoryOperation, "verification cancelled")
	default:
	}

	raw = strings.TrimSpace(raw)
	if _, sentinel := sentinelTokens[strings.ToLower(raw)]; sentinel {
		return nil, ErrTokenMissing
	}

	claims, err := v.service.Validate(raw)
	if err != nil {
		v.recordMalformed(ctx, err)
		return nil, err
	}

	return NewPrincipal(claims), nil
}

// tokenFromHeader extracts the bearer token, reporting false for every
// shape that counts as an absent credential.
func (v *Verifier) tokenFromHeader(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	prefix := v.scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	raw := strings.TrimSpace(header[len(prefix):])
	if _, sentinel := sentinelTokens[strings.ToLower(raw)]; sentinel {
		return "", false
	}

	return raw, true
}

func (v *Verifier) recordMalformed(ctx context.Context, cause error) {
	reason := TextCodeOf(cause)
	if reason == "" {
		reason = TextCodeTokenInvalid
	}

	v.logger.Info("rejected token: %s", reason)

	// expired and not-yet-valid tokens are well formed; only malformed
	// tokens make the audit trail
	if reason != TextCodeTokenInvalid {
		return
	}

	event := AuditEvent{
		EventType:  AuditEventTokenMalformed,
		Subject:    malformedSubject(cause),
		Reason:     reason,
		OccurredAt: time.Now(),
	}

	if err := v.sink.Record(ctx, event); err != nil {
		v.logger.Error("verifier failed to record malformed token event: %v", err)
	}
}

// malformedSubject pulls the uid claim a failed validation managed to
// decode, if any.
func malformedSubject(err error) string {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return ""
	}
	uid, _ := rich.Metadata["uid"].(string)
	return uid
}
