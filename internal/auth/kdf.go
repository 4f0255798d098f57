package auth

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters. Fixed for the lifetime of stored credentials:
// changing them silently would orphan every derived key, so any future tuning
// has to ship together with a credential rotation path.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1

	derivedKeyLength = 64
	saltLength       = 16
)

// deriveKey stretches a plaintext secret into a fixed-length key. Pure
// function of its inputs and safe for concurrent use; expect a call to cost
// tens of milliseconds on commodity hardware.
func deriveKey(secret string, salt []byte) ([]byte, error) {
	if len(salt) < saltLength {
		return nil, fmt.Errorf("%w: salt shorter than %d bytes", ErrCryptoUnavailable, saltLength)
	}
	key, err := scrypt.Key([]byte(secret), salt, scryptN, scryptR, scryptP, derivedKeyLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	return key, nil
}

// newSalt draws a fresh per-record salt from the system CSPRNG. An entropy
// failure is fatal for the operation; there is no weaker fallback.
func newSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	return salt, nil
}
