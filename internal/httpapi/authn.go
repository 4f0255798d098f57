package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"rigoplace.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// Endpoints reachable without a token. Everything else behind the mux
// requires a verified bearer token.
var publicPaths = []string{
	"/auth/register",
	"/auth/login",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/metrics",
	"/",
}

// withAuth is the session guard: it extracts the bearer token, verifies it
// (signature and expiration in one place) and attaches the identity to the
// request context. Signature failures and expired tokens get the same
// response; a caller probing the difference learns nothing.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		identity, err := a.auth.AuthenticateToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				writeError(w, http.StatusUnauthorized, "invalid token")
			} else {
				writeError(w, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		ctx := auth.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole guards a route with a role claim check. It runs inside
// withAuth, so a missing identity means the request never authenticated.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !identity.HasRole(role) {
				writeError(w, http.StatusForbidden, "insufficient privileges")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
