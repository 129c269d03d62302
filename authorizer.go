package guard

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Policy is the per route authorization declaration. Strict policies only
// accept exact role membership; non strict policies also accept any role
// whose rank meets the weakest allowed role.
type Policy struct {
	AllowedRoles []Role
	Strict       bool
}

// Validate checks the policy is well formed: at least one allowed role and
// every entry a known role.
func (p Policy) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.AllowedRoles,
			validation.Required,
			validation.By(knownRoles),
		),
	)
}

func knownRoles(value any) error {
	roles, ok := value.([]Role)
	if !ok {
		return fmt.Errorf("must be a role list")
	}
	for _, role := range roles {
		if !IsValidRole(role) {
			return fmt.Errorf("unknown role: %s", role)
		}
	}
	return nil
}

// Allows reports exact membership of role in the allowed set.
func (p Policy) Allows(role Role) bool {
	for _, allowed := range p.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Target identifies what a request was trying to reach, for audit records.
type Target struct {
	Resource string
	Method   string
}

// Authorizer evaluates policies against principals. Construct with
// NewAuthorizer and the With* builders, then share freely; it is immutable
// after construction.
type Authorizer struct {
	ranking *RoleRanking
	sink    AuditSink
	logger  Logger
}

// NewAuthorizer creates an Authorizer with the default clinic ranking, a
// noop audit sink, and the default logger.
func NewAuthorizer() *Authorizer {
	return &Authorizer{
		ranking: DefaultRoleRanking(),
		sink:    noopAuditSink{},
		logger:  defLogger{},
	}
}

// WithRanking replaces the role ranking.
func (a *Authorizer) WithRanking(ranking *RoleRanking) *Authorizer {
	if ranking != nil {
		a.ranking = ranking
	}
	return a
}

// WithAuditSink sets the sink that receives denial events.
func (a *Authorizer) WithAuditSink(sink AuditSink) *Authorizer {
	a.sink = normalizeAuditSink(sink)
	return a
}

// WithLogger sets the logger.
func (a *Authorizer) WithLogger(logger Logger) *Authorizer {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Authorize evaluates policy for the principal. Decision order: exact
// membership allows; strict policies then deny outright; otherwise the
// principal's rank must meet the weakest allowed role's rank. Unknown
// roles rank 0 and can never pass. Every denial records exactly one audit
// event before the verdict is returned; allows record nothing.
func (a *Authorizer) Authorize(ctx context.Context, principal *Principal, policy Policy, target Target) Verdict {
	if principal == nil {
		return Unauthenticated(ErrTokenInvalid)
	}

	if policy.Allows(principal.Role) {
		return Allow()
	}

	if policy.Strict {
		a.emitDenied(ctx, principal, policy, target, TextCodeStrictRoleMismatch)
		return Deny(ErrStrictRoleMismatch)
	}

	required := a.ranking.MinRank(policy.AllowedRoles)
	rank := a.ranking.Rank(principal.Role)
	if required > 0 && rank >= required {
		return Allow()
	}

	a.emitDenied(ctx, principal, policy, target, TextCodeInsufficientRole)
	return Deny(ErrInsufficientRole)
}

func (a *Authorizer) emitDenied(ctx context.Context, principal *Principal, policy Policy, target Target, reason string) {
	event := AuditEvent{
		EventType:     AuditEventAccessDenied,
		Subject:       principal.UserID,
		Role:          principal.Role,
		RequiredRoles: policy.AllowedRoles,
		Resource:      target.Resource,
		Method:        target.Method,
		Reason:        reason,
		OccurredAt:    time.Now(),
	}

	if err := a.sink.Record(ctx, event); err != nil {
		a.logger.Error("authorizer failed to record denial for %s: %v", principal.UserID, err)
	}
}
