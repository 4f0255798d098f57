package auth

import (
	"strings"
	"time"
)

// Credential kinds a record may carry. Clients are expected to declare which
// kind they present; ResolveKind covers the ones that do not.
const (
	KindPassword = "password"
	KindPIN      = "pin"
)

const defaultRole = "user"

// SecretSlot holds the derived-key material for one credential kind. The salt
// is generated at registration and immutable afterwards.
type SecretSlot struct {
	Salt       []byte
	DerivedKey []byte
}

// Credential is a stored identity record. The Store owns these exclusively;
// key material never crosses the package boundary (handlers only ever see a
// View).
type Credential struct {
	ID         string
	Identifier string
	Role       string
	Password   *SecretSlot
	PIN        *SecretSlot
	CreatedAt  time.Time
}

// View is the externally visible projection of a credential. It deliberately
// has no fields for salts or derived keys.
type View struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// Public strips the credential down to what may leave the process.
func (c *Credential) Public() View {
	return View{
		ID:         c.ID,
		Identifier: c.Identifier,
		Role:       c.Role,
		CreatedAt:  c.CreatedAt,
	}
}

// slotFor picks the slot to validate a proffered secret against. The declared
// kind wins; a record missing that slot falls back to the one it has, which
// keeps single-slot records verifiable regardless of what the client claims.
func (c *Credential) slotFor(kind string) *SecretSlot {
	switch kind {
	case KindPIN:
		if c.PIN != nil {
			return c.PIN
		}
		return c.Password
	default:
		if c.Password != nil {
			return c.Password
		}
		return c.PIN
	}
}

// NormalizeIdentifier canonicalizes an email or username for storage and
// lookup. Uniqueness holds over the normalized form.
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// ResolveKind returns the declared kind when the client supplied one and
// falls back to the secret's shape otherwise. The shape heuristic (4-8
// digits means PIN) is ambiguous for all-digit passwords, which is exactly
// why declared kinds take precedence.
func ResolveKind(kind, secret string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindPassword:
		return KindPassword
	case KindPIN:
		return KindPIN
	}
	if isPINShaped(secret) {
		return KindPIN
	}
	return KindPassword
}

func isPINShaped(secret string) bool {
	if len(secret) < 4 || len(secret) > 8 {
		return false
	}
	for _, r := range secret {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
