package guard

// Principal is the authenticated identity attached to a request once its
// token has been verified. It is built once per request and not mutated
// afterwards.
type Principal struct {
	UserID string
	Role   Role
	Raw    map[string]any
}

// NewPrincipal builds a Principal from verified token claims.
func NewPrincipal(claims TokenClaims) *Principal {
	raw := map[string]any{
		"sub":  claims.Subject(),
		"uid":  claims.UserID(),
		"role": claims.Role(),
	}
	if jti := claims.TokenID(); jti != "" {
		raw["jti"] = jti
	}
	if exp := claims.Expires(); !exp.IsZero() {
		raw["exp"] = exp
	}
	if iat := claims.IssuedAt(); !iat.IsZero() {
		raw["iat"] = iat
	}
	for key, val := range claims.ClaimsMetadata() {
		raw[key] = val
	}
	return &Principal{
		UserID: claims.UserID(),
		Role:   Role(claims.Role()),
		Raw:    raw,
	}
}

// ID implements the identity surface expected by the middleware adapters.
func (p *Principal) ID() string {
	return p.UserID
}

// RoleName returns the principal's role as a plain string.
func (p *Principal) RoleName() string {
	return string(p.Role)
}
