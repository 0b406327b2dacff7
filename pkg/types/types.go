package types

import "time"

// Finding is a candidate whose digest satisfied the difficulty target
type Finding struct {
	Candidate uint64
	Digest    string
}

// Result represents a mining result
type Result struct {
	Finding
	Attempts int64
	Duration time.Duration
	Workers  int
}

// Rate returns hashes per second, zero when no time elapsed
func (r *Result) Rate() float64 {
	if r.Duration.Seconds() <= 0 {
		return 0
	}
	return float64(r.Attempts) / r.Duration.Seconds()
}

// WorkerConfig contains the per-run constants shared read-only by all workers
type WorkerConfig struct {
	Multiplier   uint64
	Difficulty   string
	Algorithm    string
	Stride       uint64 // worker count
	MaxCandidate uint64 // 0 means unbounded
}
