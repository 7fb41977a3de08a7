package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x2A}, 32)

	plaintexts := [][]byte{
		[]byte("x"),
		[]byte("p@ssw0rd"),
		[]byte("a longer credential value with spaces and unicode: пароль"),
		bytes.Repeat([]byte{0x00}, 1024),
	}

	for _, pt := range plaintexts {
		sealed, err := Seal(pt, key)
		if err != nil {
			t.Fatalf("Seal error: %v", err)
		}

		got, err := Open(sealed, key)
		if err != nil {
			t.Fatalf("Open error: %v", err)
		}
		if !bytes.Equal(got, pt) {
			t.Fatalf("round trip mismatch: got %q want %q", got, pt)
		}
	}
}

func TestSeal_Framing(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, 32)
	pt := []byte("framing check")

	sealed, err := Seal(pt, key)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		t.Fatalf("output is not standard base64: %v", err)
	}

	// iv(12) + tag(16) + ciphertext(len(pt)) — GCM adds no padding.
	if want := 12 + 16 + len(pt); len(blob) != want {
		t.Fatalf("blob length = %d, want %d", len(blob), want)
	}
}

func TestSeal_FreshIVPerCall(t *testing.T) {
	key := bytes.Repeat([]byte{0x33}, 32)
	pt := []byte("same plaintext")

	s1, err := Seal(pt, key)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	s2, err := Seal(pt, key)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	if s1 == s2 {
		t.Fatalf("expected distinct ciphertexts for repeated Seal of the same plaintext")
	}
}

func TestSeal_RejectsBadKeyLength(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		_, err := Seal([]byte("data"), bytes.Repeat([]byte{0x01}, n))
		if !errors.Is(err, ErrInvalidKeyLength) {
			t.Fatalf("key length %d: expected ErrInvalidKeyLength, got %v", n, err)
		}
	}
}

func TestOpen_RejectsBadKeyLength(t *testing.T) {
	_, err := Open("aGVsbG8=", bytes.Repeat([]byte{0x01}, 16))
	if !errors.Is(err, ErrInvalidKeyLength) {
		t.Fatalf("expected ErrInvalidKeyLength, got %v", err)
	}
}

func TestOpen_RejectsShortInput(t *testing.T) {
	key := bytes.Repeat([]byte{0x2A}, 32)

	// 28 decoded bytes: iv+tag but zero ciphertext — below the 29-byte field minimum.
	short := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x00}, 28))
	if _, err := Open(short, key); !errors.Is(err, ErrMalformedCiphertext) {
		t.Fatalf("expected ErrMalformedCiphertext for 28-byte blob, got %v", err)
	}

	if _, err := Open("%%%not-base64%%%", key); !errors.Is(err, ErrMalformedCiphertext) {
		t.Fatalf("expected ErrMalformedCiphertext for invalid base64, got %v", err)
	}
}

func TestOpen_WrongKeyFails(t *testing.T) {
	key := bytes.Repeat([]byte{0x2A}, 32)
	other := bytes.Repeat([]byte{0x2B}, 32)

	sealed, err := Seal([]byte("secret"), key)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	if _, err := Open(sealed, other); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed with wrong key, got %v", err)
	}
}

// TestOpen_AnyBitFlipFails flips every bit of the sealed blob in turn and
// verifies the authentication tag rejects each mutation.
func TestOpen_AnyBitFlipFails(t *testing.T) {
	key := bytes.Repeat([]byte{0x2A}, 32)

	sealed, err := Seal([]byte("integrity"), key)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	for i := range blob {
		for bit := 0; bit < 8; bit++ {
			mutated := make([]byte, len(blob))
			copy(mutated, blob)
			mutated[i] ^= 1 << bit

			_, err := Open(base64.StdEncoding.EncodeToString(mutated), key)
			if !errors.Is(err, ErrDecryptionFailed) {
				t.Fatalf("byte %d bit %d: expected ErrDecryptionFailed, got %v", i, bit, err)
			}
		}
	}
}

func TestOpenAllowEmpty_AcceptsEmptyCiphertext(t *testing.T) {
	key := bytes.Repeat([]byte{0x2A}, 32)

	sealed, err := Seal(nil, key)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	got, err := OpenAllowEmpty(sealed, key)
	if err != nil {
		t.Fatalf("OpenAllowEmpty error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty plaintext, got %d bytes", len(got))
	}

	// The strict variant still rejects the same blob.
	if _, err := Open(sealed, key); !errors.Is(err, ErrMalformedCiphertext) {
		t.Fatalf("expected Open to reject empty ciphertext, got %v", err)
	}
}
