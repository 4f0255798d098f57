package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rigoplace.org/internal/ids"
)

const defaultTokenTTL = 15 * time.Minute

// decoySalt feeds the derivation that runs when a verification misses: an
// unknown identifier must cost the same as a wrong secret, otherwise login
// timing reveals which identifiers exist.
var decoySalt = []byte("rigoplace/decoy/0000")

// Service wires the credential store and the token codec into the operations
// the HTTP layer consumes.
type Service struct {
	store Store
	codec *Codec
	now   func() time.Time

	tokenTTL time.Duration
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithTokenTTL overrides the access token lifetime.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
			s.codec.now = fn
		}
	}
}

func NewService(store Store, codec *Codec, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if codec == nil {
		return nil, errors.New("auth: codec is required")
	}
	svc := &Service{
		store:    store,
		codec:    codec,
		now:      time.Now,
		tokenTTL: defaultTokenTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RegisterParams describes a registration request. At least one of Password
// and PIN must be set; a record may carry both.
type RegisterParams struct {
	Identifier string
	Password   string
	PIN        string
	Role       string
}

// Register validates input, derives key material and persists the record.
// Input validation fails before any derivation work. The duplicate check is
// the storage layer's uniqueness constraint, so concurrent registrations of
// one identifier yield exactly one success.
func (s *Service) Register(ctx context.Context, p RegisterParams) (View, error) {
	identifier := NormalizeIdentifier(p.Identifier)
	if identifier == "" {
		return View{}, fmt.Errorf("%w: identifier is required", ErrInvalidInput)
	}
	if p.Password == "" && p.PIN == "" {
		return View{}, fmt.Errorf("%w: a password or pin is required", ErrInvalidInput)
	}
	if p.PIN != "" && !isPINShaped(p.PIN) {
		return View{}, fmt.Errorf("%w: pin must be 4-8 digits", ErrInvalidInput)
	}
	role := NormalizeIdentifier(p.Role)
	if role == "" {
		role = defaultRole
	}

	cred := &Credential{
		ID:         ids.New(),
		Identifier: identifier,
		Role:       role,
		CreatedAt:  s.now().UTC(),
	}
	if p.Password != "" {
		slot, err := newSlot(p.Password)
		if err != nil {
			return View{}, err
		}
		cred.Password = slot
	}
	if p.PIN != "" {
		slot, err := newSlot(p.PIN)
		if err != nil {
			return View{}, err
		}
		cred.PIN = slot
	}

	if err := s.store.Create(ctx, cred); err != nil {
		return View{}, err
	}
	return cred.Public(), nil
}

func newSlot(secret string) (*SecretSlot, error) {
	salt, err := newSalt()
	if err != nil {
		return nil, err
	}
	key, err := deriveKey(secret, salt)
	if err != nil {
		return nil, err
	}
	return &SecretSlot{Salt: salt, DerivedKey: key}, nil
}

// FindByIdentifier returns the public view of a record. A miss is ErrNotFound,
// not a panic or a boolean.
func (s *Service) FindByIdentifier(ctx context.Context, identifier string) (View, error) {
	cred, err := s.store.FindByIdentifier(ctx, NormalizeIdentifier(identifier))
	if err != nil {
		return View{}, err
	}
	return cred.Public(), nil
}

// Verify reports whether the secret matches the stored credential. Unknown
// identifiers return false through the same code path, and with the same
// derivation cost, as a wrong secret.
func (s *Service) Verify(ctx context.Context, identifier, secret, kind string) (bool, error) {
	cred, err := s.authenticate(ctx, identifier, secret, kind)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return false, nil
		}
		return false, err
	}
	return cred != nil, nil
}

// Remove deletes a record and reports whether a deletion occurred.
func (s *Service) Remove(ctx context.Context, identifier string) (bool, error) {
	identifier = NormalizeIdentifier(identifier)
	if identifier == "" {
		return false, fmt.Errorf("%w: identifier is required", ErrInvalidInput)
	}
	return s.store.Delete(ctx, identifier)
}

// Login authenticates and issues a bearer token carrying the identity claims.
// Any credential failure surfaces as ErrInvalidCredentials; callers must not
// be able to tell an unknown identifier from a wrong secret.
func (s *Service) Login(ctx context.Context, identifier, secret, kind string) (string, View, error) {
	cred, err := s.authenticate(ctx, identifier, secret, kind)
	if err != nil {
		return "", View{}, err
	}
	token, err := s.codec.Issue(map[string]any{
		"sub":        cred.ID,
		"identifier": cred.Identifier,
		"role":       cred.Role,
	}, s.tokenTTL)
	if err != nil {
		return "", View{}, err
	}
	return token, cred.Public(), nil
}

// AuthenticateToken verifies a bearer token and returns the identity it
// carries. All token failures surface as ErrInvalidToken.
func (s *Service) AuthenticateToken(token string) (Identity, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return Identity{}, err
	}
	return IdentityFromClaims(claims), nil
}

func (s *Service) authenticate(ctx context.Context, identifier, secret, kind string) (*Credential, error) {
	identifier = NormalizeIdentifier(identifier)
	if identifier == "" || secret == "" {
		return nil, fmt.Errorf("%w: identifier and secret are required", ErrInvalidInput)
	}
	kind = ResolveKind(kind, secret)

	cred, err := s.store.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_, _ = deriveKey(secret, decoySalt)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	slot := cred.slotFor(kind)
	if slot == nil {
		_, _ = deriveKey(secret, decoySalt)
		return nil, ErrInvalidCredentials
	}
	candidate, err := deriveKey(secret, slot.Salt)
	if err != nil {
		return nil, err
	}
	if !constantTimeEqual(candidate, slot.DerivedKey) {
		return nil, ErrInvalidCredentials
	}
	return cred, nil
}
