package password_test

import (
	"strings"
	"testing"

	"lodge/shared/password"
)

func TestHash(t *testing.T) {
	hash, err := password.Hash("secret-password")
	if err != nil {
		t.Fatalf("Hash() failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("expected a bcrypt hash, got %s", hash)
	}

	if _, err := password.Hash(""); err == nil {
		t.Error("expected Hash to reject an empty password")
	}
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("secret-password")
	if err != nil {
		t.Fatalf("Hash() failed: %v", err)
	}

	if err := password.Verify("secret-password", hash); err != nil {
		t.Errorf("expected matching password to verify, got %v", err)
	}

	if err := password.Verify("wrong-password", hash); err == nil {
		t.Error("expected mismatched password to fail")
	}

	if err := password.Verify("", hash); err == nil {
		t.Error("expected empty password to fail")
	}

	if err := password.Verify("secret-password", ""); err == nil {
		t.Error("expected empty hash to fail")
	}
}

func TestHashConsistency(t *testing.T) {
	first, err := password.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() failed: %v", err)
	}

	second, err := password.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() failed: %v", err)
	}

	// bcrypt salts every hash; both must still verify.
	if first == second {
		t.Error("expected different salts to produce different hashes")
	}

	if err := password.Verify("same-password", first); err != nil {
		t.Errorf("first hash failed to verify: %v", err)
	}

	if err := password.Verify("same-password", second); err != nil {
		t.Errorf("second hash failed to verify: %v", err)
	}
}
