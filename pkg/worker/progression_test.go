package worker

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestProgressionSteps(t *testing.T) {
	p := NewProgression(3, 8, 0)
	for _, want := range []uint64{3, 11, 19, 27} {
		got, ok := p.Next()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}

func TestProgressionBounded(t *testing.T) {
	p := NewProgression(1, 4, 9)
	var got []uint64
	for {
		c, ok := p.Next()
		if !ok {
			break
		}
		got = append(got, c)
	}
	require.Equal(t, []uint64{1, 5, 9}, got)

	_, ok := p.Next()
	require.False(t, ok)
}

func TestProgressionStopsBeforeWrap(t *testing.T) {
	p := NewProgression(math.MaxUint64-1, 8, 0)
	c, ok := p.Next()
	require.True(t, ok)
	require.Equal(t, uint64(math.MaxUint64-1), c)

	_, ok = p.Next()
	require.False(t, ok)
}

// TestPartitionComplete checks that N progressions starting at 0..N-1 cover
// [0, N*k) with every integer visited exactly once.
func TestPartitionComplete(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("residue classes cover the prefix exactly once", prop.ForAll(
		func(workers int, steps int) bool {
			limit := uint64(workers * steps)
			seen := make([]int, limit)
			for i := 0; i < workers; i++ {
				p := NewProgression(uint64(i), uint64(workers), 0)
				for s := 0; s < steps; s++ {
					c, ok := p.Next()
					if !ok || c >= limit {
						return false
					}
					seen[c]++
				}
			}
			for _, n := range seen {
				if n != 1 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 64),
		gen.IntRange(1, 200),
	))

	properties.Property("every candidate has exactly one owner", prop.ForAll(
		func(candidate uint64, workers uint64) bool {
			owners := 0
			for i := uint64(0); i < workers; i++ {
				p := NewProgression(i, workers, candidate)
				for {
					c, ok := p.Next()
					if !ok {
						break
					}
					if c == candidate {
						owners++
						if i != candidate%workers {
							return false
						}
					}
				}
			}
			return owners == 1
		},
		gen.UInt64Range(1, 5000),
		gen.UInt64Range(1, 32),
	))

	properties.TestingRun(t)
}
