package backup

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}

	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	encrypted, err := Encrypt(plaintext, "correct horse battery staple", salt)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if bytes.Contains(encrypted, plaintext) {
		t.Error("ciphertext contains plaintext")
	}
	if !bytes.Equal(encrypted[:saltSize], salt) {
		t.Error("expected salt prefix on ciphertext")
	}

	decrypted, err := Decrypt(encrypted, "correct horse battery staple")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round trip mismatch: got %q", decrypted)
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	salt, _ := GenerateSalt()
	encrypted, err := Encrypt([]byte("secret"), "right", salt)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := Decrypt(encrypted, "wrong"); err == nil {
		t.Error("expected decrypt to fail with wrong passphrase")
	}
}

func TestDecryptTruncatedPayload(t *testing.T) {
	if _, err := Decrypt([]byte("too short"), "any"); err == nil {
		t.Error("expected error for truncated payload")
	}
}

func TestGenerateSaltUnique(t *testing.T) {
	a, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	b, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("salts should differ")
	}
}
