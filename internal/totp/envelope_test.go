package totp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/opsbase/itvault/internal/crypto"
)

func TestSecretEnvelope_RoundTrip(t *testing.T) {
	appKey := []byte("application-wide-key")
	secret := "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"

	envelope, err := EncryptSecret(secret, appKey)
	if err != nil {
		t.Fatalf("EncryptSecret error: %v", err)
	}

	got, err := DecryptSecret(envelope, appKey)
	if err != nil {
		t.Fatalf("DecryptSecret error: %v", err)
	}
	if got != secret {
		t.Fatalf("round trip mismatch: %q != %q", got, secret)
	}
}

func TestSecretEnvelope_WrongAppKeyFails(t *testing.T) {
	envelope, err := EncryptSecret("JBSWY3DPEHPK3PXP", []byte("key-one"))
	if err != nil {
		t.Fatalf("EncryptSecret error: %v", err)
	}

	_, err = DecryptSecret(envelope, []byte("key-two"))
	if !errors.Is(err, crypto.ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDeriveEnvelopeKey_Shape(t *testing.T) {
	appKey := []byte("application-wide-key")

	k1 := DeriveEnvelopeKey(appKey)
	k2 := DeriveEnvelopeKey(appKey)

	if len(k1) != 32 {
		t.Fatalf("derived key length = %d, want 32", len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected deterministic derivation")
	}
	if bytes.Equal(k1, appKey) {
		t.Fatalf("derived key must differ from the raw application key")
	}

	// Domain separation from other app-key consumers.
	if bytes.Equal(k1, DeriveEnvelopeKey([]byte("other-key"))) {
		t.Fatalf("expected different keys for different app keys")
	}
}
