package password

import (
	"strings"
	"testing"

	"github.com/alexedwards/argon2id"
)

// лёгкие параметры, чтобы не жечь CPU в тестах
func testHasher() *Hasher {
	return New(&argon2id.Params{
		Memory:      16 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

func TestHashVerifyRoundtrip(t *testing.T) {
	h := testHasher()

	encoded, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected hash format: %q", encoded)
	}

	ok, err := h.Verify("secret1", encoded)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = h.Verify("wrong-1", encoded)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h := testHasher()

	a, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyCorruptHash(t *testing.T) {
	h := testHasher()
	if _, err := h.Verify("secret1", "not-a-hash"); err == nil {
		t.Fatal("corrupt hash must return an error")
	}
}

func TestNilParams(t *testing.T) {
	var h *Hasher
	if _, err := h.Hash("secret1"); err == nil {
		t.Fatal("nil hasher must not hash")
	}
}
