package auth

import "testing"

func TestHashAndVerifyToken(t *testing.T) {
	t.Parallel()

	hash, err := HashToken("s3cret-sync-token")
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}
	if !ValidHash(hash) {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if !VerifyToken("s3cret-sync-token", hash) {
		t.Fatalf("expected token verification to succeed")
	}
	if VerifyToken("wrong-token", hash) {
		t.Fatalf("did not expect wrong token to verify")
	}
	if VerifyToken("", hash) {
		t.Fatalf("empty token must not verify")
	}
	if _, err := HashToken("   "); err == nil {
		t.Fatalf("expected blank token to be rejected")
	}
	if ValidHash("plain-text") {
		t.Fatalf("plain text is not a bcrypt hash")
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "bearer  abc ", want: "abc", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer", ok: false},
		{header: "", ok: false},
	}
	for _, tc := range cases {
		got, ok := BearerToken(tc.header)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("BearerToken(%q) = %q, %v", tc.header, got, ok)
		}
	}
}
