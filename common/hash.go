package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.dedis.ch/kyber/v4/suites"
)

// HashLength is the size in bytes of every digest produced by Digest.
const HashLength = 32

// ErrMalformedCommitment is returned when a textual commitment hash is not
// exactly HashLength bytes of hex.
var ErrMalformedCommitment = errors.New("common: malformed commitment hash")

// Hash is a 32-byte SHA-256 digest.
type Hash [HashLength]byte

// ZeroHash is the all-zero digest the chain starts from.
var ZeroHash Hash

var suite suites.Suite = suites.MustFind("Ed25519")

// Digest hashes the concatenation of parts. The order of parts is significant.
func Digest(parts ...[]byte) Hash {
	h := suite.Hash()
	for _, p := range parts {
		h.Write(p)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Bytes returns a copy of the hash as a slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashLength)
	copy(b, h[:])
	return b
}

// String returns the lowercase hex encoding without prefix.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether every byte of h is zero.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// ParseHash decodes a hex commitment hash, with or without a 0x prefix.
// Anything that does not decode to exactly HashLength bytes fails with
// ErrMalformedCommitment.
func ParseHash(s string) (Hash, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %v", ErrMalformedCommitment, err)
	}
	if len(b) != HashLength {
		return Hash{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedCommitment, HashLength, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}
