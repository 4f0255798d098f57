package auth

import "context"

// Store describes credential persistence. Implementations must enforce
// identifier uniqueness at the storage layer, not via check-then-act: two
// concurrent Create calls for one identifier resolve to exactly one success
// and one ErrAlreadyExists. A record is either fully present or fully absent
// after any operation.
type Store interface {
	Create(ctx context.Context, cred *Credential) error
	FindByIdentifier(ctx context.Context, identifier string) (*Credential, error)
	Delete(ctx context.Context, identifier string) (bool, error)
}
