package auth

import "testing"

func TestConstantTimeEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b []byte
		want bool
	}{
		{"equal", []byte("secret-key-material"), []byte("secret-key-material"), true},
		{"differs", []byte("secret-key-material"), []byte("secret-key-materiaL"), false},
		{"shorter", []byte("secret"), []byte("secret-key-material"), false},
		{"longer", []byte("secret-key-material"), []byte("secret"), false},
		{"both empty", nil, nil, true},
		{"one empty", nil, []byte("x"), false},
	}
	for _, tc := range cases {
		if got := constantTimeEqual(tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: constantTimeEqual=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDeriveKeyIsDeterministic(t *testing.T) {
	salt, err := newSalt()
	if err != nil {
		t.Fatalf("newSalt: %v", err)
	}
	k1, err := deriveKey("Password123", salt)
	if err != nil {
		t.Fatalf("deriveKey: %v", err)
	}
	k2, err := deriveKey("Password123", salt)
	if err != nil {
		t.Fatalf("deriveKey: %v", err)
	}
	if !constantTimeEqual(k1, k2) {
		t.Fatal("same secret and salt must derive the same key")
	}
	if len(k1) != derivedKeyLength {
		t.Fatalf("derived key length %d, want %d", len(k1), derivedKeyLength)
	}

	other, err := deriveKey("Password124", salt)
	if err != nil {
		t.Fatalf("deriveKey: %v", err)
	}
	if constantTimeEqual(k1, other) {
		t.Fatal("different secrets must not derive the same key")
	}
}

func TestDeriveKeyRejectsShortSalt(t *testing.T) {
	if _, err := deriveKey("Password123", []byte("short")); err == nil {
		t.Fatal("expected error for short salt")
	}
}

func TestNewSaltIsUnique(t *testing.T) {
	a, err := newSalt()
	if err != nil {
		t.Fatalf("newSalt: %v", err)
	}
	b, err := newSalt()
	if err != nil {
		t.Fatalf("newSalt: %v", err)
	}
	if len(a) != saltLength || len(b) != saltLength {
		t.Fatalf("unexpected salt lengths %d/%d", len(a), len(b))
	}
	if constantTimeEqual(a, b) {
		t.Fatal("two salts from the CSPRNG collided")
	}
}
