package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for unique_violation. The credentials table carries a
// unique index on identifier, so concurrent registrations race inside the
// database instead of inside this package.
const pgUniqueViolation = "23505"

var _ Store = (*PGStore)(nil)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, cred *Credential) error {
	var pwSalt, pwKey, pinSalt, pinKey []byte
	if cred.Password != nil {
		pwSalt, pwKey = cred.Password.Salt, cred.Password.DerivedKey
	}
	if cred.PIN != nil {
		pinSalt, pinKey = cred.PIN.Salt, cred.PIN.DerivedKey
	}
	_, err := s.db.ExecContext(ctx,
		`insert into credentials(id, identifier, role, password_salt, password_key, pin_salt, pin_key, created_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		cred.ID, cred.Identifier, cred.Role, pwSalt, pwKey, pinSalt, pinKey, cred.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("auth: create credential: %w", err)
	}
	return nil
}

func (s *PGStore) FindByIdentifier(ctx context.Context, identifier string) (*Credential, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, identifier, role, password_salt, password_key, pin_salt, pin_key, created_at
		 from credentials where identifier=$1`, identifier)
	var (
		cred                           Credential
		pwSalt, pwKey, pinSalt, pinKey []byte
	)
	if err := row.Scan(&cred.ID, &cred.Identifier, &cred.Role, &pwSalt, &pwKey, &pinSalt, &pinKey, &cred.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("auth: find credential: %w", err)
	}
	if len(pwKey) > 0 {
		cred.Password = &SecretSlot{Salt: pwSalt, DerivedKey: pwKey}
	}
	if len(pinKey) > 0 {
		cred.PIN = &SecretSlot{Salt: pinSalt, DerivedKey: pinKey}
	}
	return &cred, nil
}

func (s *PGStore) Delete(ctx context.Context, identifier string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from credentials where identifier=$1`, identifier)
	if err != nil {
		return false, fmt.Errorf("auth: delete credential: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("auth: delete credential: %w", err)
	}
	return affected > 0, nil
}
