package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected encoding: %q", encoded)
	}
	if !Verify("hunter2", encoded) {
		t.Fatalf("expected password to verify")
	}
	if Verify("wrong", encoded) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHashRejectsEmpty(t *testing.T) {
	if _, err := Hash("   "); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	if Verify("x", "not-an-argon2-hash") {
		t.Fatalf("expected malformed hash to fail verification")
	}
}
