package crypto

// KeyBuffer holds the unlocked vault key in a fixed-size mutable buffer that
// can be wiped in place. Session code stores the key here instead of in a
// string or a shared slice so that lock, logout and timeout can overwrite the
// bytes before the session record is dropped.
//
// Zeroing is best-effort: the garbage collector may have copied the bytes
// during an earlier allocation, but keeping the key in exactly one wipeable
// place for its whole lifetime is the strongest guarantee a managed runtime
// offers.
type KeyBuffer struct {
	key [KeySize]byte
	set bool
}

// NewKeyBuffer copies key into a fresh buffer. Returns
// [ErrInvalidKeyLength] unless key is exactly 32 bytes.
func NewKeyBuffer(key []byte) (*KeyBuffer, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeyLength
	}

	kb := &KeyBuffer{set: true}
	copy(kb.key[:], key)
	return kb, nil
}

// Bytes returns the key material, or nil if the buffer has been zeroed.
// The returned slice aliases the buffer; callers must not retain it past the
// operation that needed it.
func (kb *KeyBuffer) Bytes() []byte {
	if kb == nil || !kb.set {
		return nil
	}
	return kb.key[:]
}

// Zero overwrites the key with zero bytes and marks the buffer empty.
// Safe to call multiple times and on a nil receiver.
func (kb *KeyBuffer) Zero() {
	if kb == nil {
		return
	}
	for i := range kb.key {
		kb.key[i] = 0
	}
	kb.set = false
}
