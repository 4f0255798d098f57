package auth

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps credentials in a mutex-guarded map. It backs unit tests
// and the dev server when no DSN is configured; uniqueness is atomic because
// lookup and insert happen under one lock.
type MemoryStore struct {
	mu    sync.Mutex
	creds map[string]*Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{creds: make(map[string]*Credential)}
}

func (s *MemoryStore) Create(ctx context.Context, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creds[cred.Identifier]; ok {
		return ErrAlreadyExists
	}
	s.creds[cred.Identifier] = cloneCredential(cred)
	return nil
}

func (s *MemoryStore) FindByIdentifier(ctx context.Context, identifier string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[identifier]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneCredential(cred), nil
}

func (s *MemoryStore) Delete(ctx context.Context, identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creds[identifier]; !ok {
		return false, nil
	}
	delete(s.creds, identifier)
	return true, nil
}

// cloneCredential deep-copies a record so callers never share byte slices
// with the map.
func cloneCredential(c *Credential) *Credential {
	cp := *c
	cp.Password = cloneSlot(c.Password)
	cp.PIN = cloneSlot(c.PIN)
	return &cp
}

func cloneSlot(s *SecretSlot) *SecretSlot {
	if s == nil {
		return nil
	}
	return &SecretSlot{
		Salt:       append([]byte(nil), s.Salt...),
		DerivedKey: append([]byte(nil), s.DerivedKey...),
	}
}
