package auth

import (
	"context"
	"strings"
)

type identityContextKey struct{}

// Identity is what the session middleware attaches to the request context
// once a bearer token passes verification.
type Identity struct {
	Subject    string
	Identifier string
	Role       string
}

// HasRole compares case-insensitively; an empty required role never matches.
func (id Identity) HasRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(id.Role)) == role
}

// IdentityFromClaims projects verified token claims onto an Identity.
func IdentityFromClaims(claims map[string]any) Identity {
	var id Identity
	if sub, ok := claims["sub"].(string); ok {
		id.Subject = strings.TrimSpace(sub)
	}
	if identifier, ok := claims["identifier"].(string); ok {
		id.Identifier = strings.TrimSpace(identifier)
	}
	if role, ok := claims["role"].(string); ok {
		id.Role = strings.TrimSpace(role)
	}
	return id
}

// ContextWithIdentity stores the authenticated identity in the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	if !ok || id.Subject == "" {
		return Identity{}, false
	}
	return id, true
}
