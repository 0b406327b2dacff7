package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/screa/pow-miner/internal/crypto"
)

// Defaults
const (
	DefaultWorkers     = 8
	DefaultMultiplier  = 42
	DefaultDifficulty  = "00000"
	DefaultLogInterval = 5 * time.Second
)

// Errors
var (
	ErrNoWorkers          = errors.New("--workers must be positive")
	ErrNoMultiplier       = errors.New("--multiplier must be positive")
	ErrNoDifficulty       = errors.New("--difficulty must not be empty")
	ErrDifficultyNotHex   = errors.New("--difficulty must contain only lowercase hex characters (0-9, a-f)")
	ErrUnknownAlgorithm   = errors.New("--algorithm is not supported")
	ErrBadLogInterval     = errors.New("--log-interval must be positive")
	ErrNegativeTimeout    = errors.New("--timeout must not be negative")
	ErrMaxBelowWorkerPool = errors.New("--max-candidate leaves some workers without candidates")
)

// Config holds the application configuration
type Config struct {
	Workers      int
	Multiplier   uint64
	Difficulty   string
	Algorithm    string
	MaxCandidate uint64 // 0 means unbounded, so candidate 0 alone cannot be a bound
	Timeout      time.Duration
	Verbose      bool
	LogFile      string
	LogInterval  time.Duration
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Workers:     DefaultWorkers,
		Multiplier:  DefaultMultiplier,
		Difficulty:  DefaultDifficulty,
		Algorithm:   crypto.DefaultAlgorithm,
		LogInterval: DefaultLogInterval,
	}
}

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Workers <= 0 {
		result = multierror.Append(result, ErrNoWorkers)
	}
	if c.Multiplier == 0 {
		result = multierror.Append(result, ErrNoMultiplier)
	}
	if c.Difficulty == "" {
		result = multierror.Append(result, ErrNoDifficulty)
	} else if !crypto.IsLowerHex(c.Difficulty) {
		result = multierror.Append(result, fmt.Errorf("%w: got %q", ErrDifficultyNotHex, c.Difficulty))
	}
	if _, err := crypto.NewHasher(c.Algorithm); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %v (want one of %s)",
			ErrUnknownAlgorithm, err, strings.Join(crypto.Algorithms(), ", ")))
	}
	if c.LogInterval <= 0 {
		result = multierror.Append(result, ErrBadLogInterval)
	}
	if c.Timeout < 0 {
		result = multierror.Append(result, ErrNegativeTimeout)
	}
	// worker i starts at candidate i, so the bound has to reach every offset
	if c.MaxCandidate != 0 && c.Workers > 0 && c.MaxCandidate < uint64(c.Workers-1) {
		result = multierror.Append(result, ErrMaxBelowWorkerPool)
	}

	return result.ErrorOrNil()
}

// GetTargetDescription returns a human-readable description of the target
func (c *Config) GetTargetDescription() string {
	return fmt.Sprintf("%s(n * %d) == %q...", strings.ToUpper(c.Algorithm), c.Multiplier, c.Difficulty)
}

// ExpectedAttempts is the mean number of candidates needed for the difficulty,
// 16 per hex character.
func (c *Config) ExpectedAttempts() float64 {
	expected := 1.0
	for range c.Difficulty {
		expected *= 16
	}
	return expected
}
