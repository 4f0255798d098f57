package auth

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("auth: not found")
	ErrAlreadyExists      = errors.New("auth: identifier already registered")
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrCryptoUnavailable  = errors.New("auth: crypto unavailable")
)

// ErrInvalidToken is the umbrella for every token validation failure. The
// HTTP boundary matches on it alone so callers never learn which check
// rejected the token.
var ErrInvalidToken = errors.New("auth: invalid token")

var (
	ErrMalformedToken       = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrUnsupportedAlgorithm = fmt.Errorf("%w: unsupported algorithm", ErrInvalidToken)
	ErrSignatureMismatch    = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	ErrTokenExpired         = fmt.Errorf("%w: expired", ErrInvalidToken)
)
