// Package crypto implements the cryptographic primitives of the vault core:
// Argon2id password hashing, AES-256-GCM authenticated encryption with
// explicit iv‖tag‖ciphertext framing, PBKDF2 key derivation and the
// password-protected vault-key envelope.
//
// Everything above this package (services, handlers) treats these primitives
// as black boxes: they accept plaintext and keys and return either a result
// or a sentinel error that carries no secret material.
package crypto

// PasswordHasher hashes and verifies human passwords with a memory-hard
// function. It is used for both the login password and the optional vault
// password.
type PasswordHasher interface {
	// Hash derives a salted hash of password and returns it in PHC string
	// format ($argon2id$v=19$m=...,t=...,p=...$salt$hash).
	Hash(password string) (string, error)

	// Verify reports whether password matches the PHC-encoded hash.
	// It returns false on any parse failure; it never returns an error so
	// that callers cannot branch on why verification failed.
	Verify(password, encoded string) bool
}
