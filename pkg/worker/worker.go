package worker

import (
	"bytes"
	"hash"
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/screa/pow-miner/internal/crypto"
	"github.com/screa/pow-miner/pkg/types"
)

// Attempts are published to the shared counters in batches
const flushEvery = 1000

// Verifier checks single candidates against the difficulty target.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	multiplier uint64
	difficulty string
	algorithm  string
}

// NewVerifier creates a verifier for an already validated configuration
func NewVerifier(config *types.WorkerConfig) *Verifier {
	// fail at construction instead of on the first Verify
	crypto.MustHasher(config.Algorithm)
	return &Verifier{
		multiplier: config.Multiplier,
		difficulty: config.Difficulty,
		algorithm:  config.Algorithm,
	}
}

// Verify hashes the decimal form of candidate*multiplier and reports a Finding
// when the lowercase hex digest starts with the difficulty string.
func (v *Verifier) Verify(candidate uint64) (types.Finding, bool) {
	h := crypto.MustHasher(v.algorithm)
	digest := crypto.HexDigestInto(h, crypto.Transform(nil, candidate, v.multiplier),
		make([]byte, crypto.MaxDigestLen), make([]byte, 2*crypto.MaxDigestLen))
	if !strings.HasPrefix(string(digest), v.difficulty) {
		return types.Finding{}, false
	}
	return types.Finding{Candidate: candidate, Digest: string(digest)}, true
}

// Worker searches one residue class of the candidate space
type Worker struct {
	id         int
	config     *types.WorkerConfig
	difficulty []byte
	hasher     hash.Hash
	attempts   *atomic.Int64
	hashed     prometheus.Counter
	examined   int64

	// Pre-allocated buffers for performance
	numBuf [20]byte // fits any uint64 in base 10
	sumBuf [crypto.MaxDigestLen]byte
	hexBuf [2 * crypto.MaxDigestLen]byte
}

// NewWorker creates worker id, which starts at candidate id and steps by config.Stride.
// attempts and hashed may be nil.
func NewWorker(id int, config *types.WorkerConfig, attempts *atomic.Int64, hashed prometheus.Counter) *Worker {
	return &Worker{
		id:         id,
		config:     config,
		difficulty: []byte(config.Difficulty),
		hasher:     crypto.MustHasher(config.Algorithm),
		attempts:   attempts,
		hashed:     hashed,
	}
}

// ID returns the worker's starting offset
func (w *Worker) ID() int {
	return w.id
}

// Examined returns how many candidates this worker hashed. Only meaningful
// once Run has returned.
func (w *Worker) Examined() int64 {
	return w.examined
}

// Run walks the worker's progression until found is set, a match is sent on
// results, or the progression ends. results must have buffer space for this
// worker's single send.
func (w *Worker) Run(found *atomic.Bool, results chan<- types.Finding) {
	var pending int64
	defer func() { w.flush(pending) }()

	seq := NewProgression(uint64(w.id), w.config.Stride, w.config.MaxCandidate)
	for {
		candidate, ok := seq.Next()
		if !ok {
			return
		}
		// relaxed poll: a late observation only costs one extra hash
		if found.Load() {
			return
		}

		w.examined++
		pending++
		if pending == flushEvery {
			w.flush(pending)
			pending = 0
		}

		if finding, ok := w.check(candidate); ok {
			found.Store(true)
			results <- finding
			return
		}
	}
}

// check is the allocation-free form of Verifier.Verify
func (w *Worker) check(candidate uint64) (types.Finding, bool) {
	num := crypto.Transform(w.numBuf[:0], candidate, w.config.Multiplier)
	digest := crypto.HexDigestInto(w.hasher, num, w.sumBuf[:], w.hexBuf[:])
	if !bytes.HasPrefix(digest, w.difficulty) {
		return types.Finding{}, false
	}
	return types.Finding{Candidate: candidate, Digest: string(digest)}, true
}

func (w *Worker) flush(n int64) {
	if n == 0 {
		return
	}
	if w.attempts != nil {
		w.attempts.Add(n)
	}
	if w.hashed != nil {
		w.hashed.Add(float64(n))
	}
}
