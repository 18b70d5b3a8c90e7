package leadergeo

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKey is the fixed 32-byte identity of a network participant.
// Ordering is unsigned lexicographic over the raw bytes.
type PublicKey [32]byte

// ParsePublicKey decodes a base58 participant key. Anything that does
// not decode to exactly 32 bytes is rejected.
func ParsePublicKey(s string) (PublicKey, error) {
	var k PublicKey
	raw, err := base58.Decode(s)
	if err != nil {
		return k, fmt.Errorf("decoding key %q: %w", s, err)
	}
	if len(raw) != len(k) {
		return k, fmt.Errorf("key %q decodes to %d bytes, want %d", s, len(raw), len(k))
	}
	copy(k[:], raw)
	return k, nil
}

// String renders the key in its usual base58 form.
func (k PublicKey) String() string {
	return base58.Encode(k[:])
}
