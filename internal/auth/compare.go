package auth

import "crypto/subtle"

// constantTimeEqual reports whether a and b are equal without leaking where
// they first differ. When the lengths differ the result is always false, but
// a full comparison pass over the longer input still runs so the call cannot
// be used as a length oracle either.
func constantTimeEqual(a, b []byte) bool {
	if len(a) == len(b) {
		return subtle.ConstantTimeCompare(a, b) == 1
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	pa := make([]byte, n)
	pb := make([]byte, n)
	copy(pa, a)
	copy(pb, b)
	subtle.ConstantTimeCompare(pa, pb)
	return false
}
