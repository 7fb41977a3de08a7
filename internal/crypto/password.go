package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// DummyHash is a syntactically valid argon2id PHC string that matches no
// password. Login verifies unknown usernames against it so that the
// "user not found" path performs the same amount of work as a real
// verification, preventing username enumeration via response timing.
// Deployments may override it through configuration; tests may substitute
// their own.
const DummyHash = "$argon2id$v=19$m=65536,t=1,p=4$3q2+796tvu/erb7v3q2+7w$sVY0jBYkfOfTN5dHQFKpUDMlRhAOC2dUWPYZpGCuLGU"

// argonHasher is the Argon2id implementation of [PasswordHasher].
type argonHasher struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target.
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// NewPasswordHasher constructs a [PasswordHasher] with the Argon2id
// parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
//   - salt length: 16 bytes
func NewPasswordHasher() PasswordHasher {
	return &argonHasher{
		time:    1,
		memory:  64 * 1024, // 64 MiB
		threads: 4,
		keyLen:  32, // 256 bits
		saltLen: 16,
	}
}

// Hash implements [PasswordHasher]. It reads a fresh random salt from the OS
// CSPRNG, derives the Argon2id digest and encodes both in PHC string format.
func (a *argonHasher) Hash(password string) (string, error) {
	salt := make([]byte, a.saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, a.time, a.memory, a.threads, a.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.memory, a.time, a.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)

	return encoded, nil
}

// Verify implements [PasswordHasher]. It re-derives the digest using the
// parameters and salt embedded in encoded and compares it against the stored
// digest in constant time. Any parse failure yields false.
func (a *argonHasher) Verify(password, encoded string) bool {
	params, salt, digest, err := parsePHC(encoded)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(digest)))

	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

// phcParams holds the Argon2id cost parameters parsed out of a PHC string.
type phcParams struct {
	memory  uint32
	time    uint32
	threads uint8
}

// parsePHC splits a $argon2id$v=19$m=...,t=...,p=...$salt$hash string into
// its cost parameters, salt and digest.
func parsePHC(encoded string) (phcParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return phcParams{}, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return phcParams{}, nil, nil, ErrInvalidHash
	}

	var params phcParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return phcParams{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return phcParams{}, nil, nil, ErrInvalidHash
	}

	digest, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(digest) == 0 {
		return phcParams{}, nil, nil, ErrInvalidHash
	}

	return params, salt, digest, nil
}
