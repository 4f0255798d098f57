package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"rigoplace.org/internal/auth"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"ok", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi", false},
		{"surrounding space", "  Bearer abc.def.ghi  ", "abc.def.ghi", false},
		{"empty", "", "", true},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", true},
		{"scheme only", "Bearer ", "", true},
	}
	for _, tc := range cases {
		got, err := extractBearerToken(tc.header)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireRole("admin")(next)

	serve := func(identity *auth.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/credentials/x", nil)
		if identity != nil {
			req = req.WithContext(auth.ContextWithIdentity(req.Context(), *identity))
		}
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(&auth.Identity{Subject: "cred-1", Role: "admin"})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: status %d", rec.Code)
	}

	// Role comparison ignores case.
	rec = serve(&auth.Identity{Subject: "cred-1", Role: "Admin"})
	if rec.Code != http.StatusOK {
		t.Fatalf("mixed-case admin: status %d", rec.Code)
	}

	rec = serve(&auth.Identity{Subject: "cred-2", Role: "user"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user: status %d", rec.Code)
	}

	rec = serve(nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no identity: status %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("missing WWW-Authenticate header")
	}
}

func TestIsPublicPath(t *testing.T) {
	for _, path := range []string{"/auth/register", "/auth/login", "/healthz", "/metrics", "/"} {
		if !isPublicPath(path) {
			t.Fatalf("%s should be public", path)
		}
	}
	for _, path := range []string{"/v1/me", "/v1/admin/credentials/x", "/auth/register/extra"} {
		if isPublicPath(path) {
			t.Fatalf("%s should require a token", path)
		}
	}
}
