package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	token, err := codec.Issue(42, RoleVendor)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	id, err := claims.SubjectID()
	if err != nil {
		t.Fatalf("subject id: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected subject 42, got %d", id)
	}
	if claims.Role != string(RoleVendor) {
		t.Fatalf("expected role VENDOR, got %s", claims.Role)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	token, err := codec.IssueWithTTL(7, RoleClient, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	token, err := codec.Issue(7, RoleClient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Flip the last signature byte.
	mutated := []byte(token)
	last := len(mutated) - 1
	if mutated[last] == 'A' {
		mutated[last] = 'B'
	} else {
		mutated[last] = 'A'
	}

	if _, err := codec.Verify(string(mutated)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewCodec("secret-a", time.Hour)
	verifier := NewCodec("secret-b", time.Hour)

	token, err := issuer.Issue(7, RoleClient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken across secrets, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)
	for _, garbage := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Verify(garbage); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", garbage, err)
		}
	}
}
