package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("hunter2hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected encoding: %s", encoded)
	}

	if !Verify("hunter2hunter2", encoded) {
		t.Fatalf("expected correct password to verify")
	}
	if Verify("wrong password", encoded) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	first, err := Hash("same password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := Hash("same password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct hashes for the same password")
	}
}

func TestVerifyMalformed(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$salt",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=banana,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!",
	}
	for _, encoded := range cases {
		if Verify("password", encoded) {
			t.Fatalf("expected malformed hash to fail verification: %q", encoded)
		}
	}
}
