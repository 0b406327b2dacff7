package crypto

import (
	"hash"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexDigestKnownValues(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		input     string
		expected  string
	}{
		{
			name:      "sha256 of zero",
			algorithm: SHA256,
			input:     "0",
			expected:  "5feceb66ffc86f38d952786c6d696c79c2dbc239dd4e91b46729d73a27fb57e9",
		},
		{
			name:      "sha256 of empty",
			algorithm: SHA256,
			input:     "",
			expected:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:      "keccak256 of empty",
			algorithm: Keccak256,
			input:     "",
			expected:  "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HexDigest(tt.algorithm, []byte(tt.input))
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestHexDigestUnknownAlgorithm(t *testing.T) {
	_, err := HexDigest("md5", []byte("0"))
	require.Error(t, err)
}

func TestHexDigestIntoMatchesHexDigest(t *testing.T) {
	for _, algo := range Algorithms() {
		t.Run(algo, func(t *testing.T) {
			var h hash.Hash = MustHasher(algo)
			sumBuf := make([]byte, MaxDigestLen)
			hexBuf := make([]byte, 2*MaxDigestLen)

			// reuse the same hasher and buffers across inputs
			for _, in := range []string{"0", "42", "84", "1234567890"} {
				want, err := HexDigest(algo, []byte(in))
				require.NoError(t, err)
				got := HexDigestInto(h, []byte(in), sumBuf, hexBuf)
				require.Equal(t, want, string(got))
			}
		})
	}
}

func TestTransform(t *testing.T) {
	require.Equal(t, "0", string(Transform(nil, 0, 42)))
	require.Equal(t, "42", string(Transform(nil, 1, 42)))
	require.Equal(t, "4200", string(Transform(nil, 100, 42)))
	require.Equal(t, "x84", string(Transform([]byte("x"), 2, 42)))
}

func TestIsLowerHex(t *testing.T) {
	require.True(t, IsLowerHex("00000"))
	require.True(t, IsLowerHex("0123456789abcdef"))
	require.False(t, IsLowerHex("00A"))
	require.False(t, IsLowerHex("0x0"))
	require.False(t, IsLowerHex("g"))
}
