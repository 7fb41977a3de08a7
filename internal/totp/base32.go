package totp

import "strings"

// RFC 4648 base32 alphabet. Authenticator apps exchange TOTP secrets in this
// encoding, so the codec must round-trip every trailing-byte case exactly:
// 1, 2, 3 and 4 leftover bytes encode to 2, 4, 5 and 7 symbols respectively,
// padded with '=' to a multiple of 8 in the stored form.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// padLengths maps len(data)%5 to the number of '=' padding characters.
var padLengths = [5]int{0, 6, 4, 3, 1}

// EncodeBase32 encodes data per RFC 4648, including '=' padding.
func EncodeBase32(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var out strings.Builder
	out.Grow((len(data)*8 + 4) / 5)

	var acc uint32
	bits := 0
	for _, b := range data {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out.WriteByte(alphabet[(acc>>bits)&0x1F])
		}
	}

	// Leftover bits are left-aligned into a final symbol.
	if bits > 0 {
		out.WriteByte(alphabet[(acc<<(5-bits))&0x1F])
	}

	for i := 0; i < padLengths[len(data)%5]; i++ {
		out.WriteByte('=')
	}

	return out.String()
}

// DecodeBase32 decodes an RFC 4648 base32 string. Trailing '=' characters
// are treated as trim-only padding; any other character outside the 32-symbol
// alphabet is rejected with [ErrInvalidBase32].
func DecodeBase32(encoded string) ([]byte, error) {
	encoded = strings.TrimRight(encoded, "=")

	out := make([]byte, 0, len(encoded)*5/8)

	var acc uint32
	bits := 0
	for i := 0; i < len(encoded); i++ {
		idx := strings.IndexByte(alphabet, encoded[i])
		if idx < 0 {
			return nil, ErrInvalidBase32
		}

		acc = acc<<5 | uint32(idx)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>bits))
		}
	}

	return out, nil
}
