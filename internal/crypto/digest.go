package crypto

import (
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"

	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/sha3"
)

// Supported digest algorithms
const (
	SHA256    = "sha256"
	Keccak256 = "keccak256"

	// DefaultAlgorithm is the digest used by the proof-of-work predicate
	DefaultAlgorithm = SHA256
)

// Longest digest we produce, in bytes
const MaxDigestLen = 32

// Algorithms lists the supported algorithm names in display order.
func Algorithms() []string {
	return []string{SHA256, Keccak256}
}

// NewHasher returns a fresh hasher for the named algorithm.
func NewHasher(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case SHA256, "":
		return sha256.New(), nil
	case Keccak256:
		return sha3.NewLegacyKeccak256(), nil
	default:
		return nil, fmt.Errorf("unknown digest algorithm %q", algorithm)
	}
}

// MustHasher is NewHasher for algorithms that were already validated.
func MustHasher(algorithm string) hash.Hash {
	h, err := NewHasher(algorithm)
	if err != nil {
		panic(err)
	}
	return h
}

// Transform renders candidate*multiplier as its base-10 string, appending to dst.
// Overflow wraps like any uint64 multiplication.
func Transform(dst []byte, candidate, multiplier uint64) []byte {
	return strconv.AppendUint(dst, candidate*multiplier, 10)
}

// HexDigest hashes data with a fresh hasher and returns the lowercase hex digest.
func HexDigest(algorithm string, data []byte) (string, error) {
	h, err := NewHasher(algorithm)
	if err != nil {
		return "", err
	}
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HexDigestInto hashes data with the given hasher and writes the lowercase hex
// digest into hexBuf, returning the written slice. Reuses the hasher and the
// caller's buffers so the hot path does not allocate. sumBuf must hold
// MaxDigestLen bytes and hexBuf twice that.
func HexDigestInto(hasher hash.Hash, data, sumBuf, hexBuf []byte) []byte {
	hasher.Reset()
	_, _ = hasher.Write(data)
	sum := hasher.Sum(sumBuf[:0])
	n := hex.Encode(hexBuf, sum)
	return hexBuf[:n]
}

// IsLowerHex reports whether s is made only of the characters 0-9 and a-f.
func IsLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
