package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/screa/pow-miner/internal/config"
	"github.com/screa/pow-miner/internal/crypto"
	logpkg "github.com/screa/pow-miner/internal/logger"
	minerpkg "github.com/screa/pow-miner/pkg/miner"
	"github.com/screa/pow-miner/pkg/types"
	"github.com/screa/pow-miner/pkg/worker"
)

// Exit codes
const (
	exitSuccess  = 0
	exitGeneric  = 1
	exitTimeout  = 2
	exitFault    = 3
	exitConfig   = 4
	exitCanceled = 130
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	code := exitSuccess
	rootCmd := newRootCmd(&code)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code == exitSuccess {
			code = exitGeneric
		}
	}
	return code
}

func newRootCmd(code *int) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "pow-miner",
		Short: "Parallel proof-of-work search",
		Long: `A command line utility that searches for a number n such that
SHA256(n * multiplier) starts with a difficulty prefix, using a fixed pool of
workers that each scan a disjoint slice of the integers.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := runMiner(cmd.Context())
			*code = c
			return err
		},
	}

	rootCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", config.DefaultWorkers, "Number of worker goroutines")
	rootCmd.Flags().Uint64VarP(&cfg.Multiplier, "multiplier", "m", config.DefaultMultiplier, "Multiplier applied to each candidate before hashing")
	rootCmd.Flags().StringVarP(&cfg.Difficulty, "difficulty", "d", config.DefaultDifficulty, "Required digest prefix (lowercase hex)")
	rootCmd.Flags().StringVarP(&cfg.Algorithm, "algorithm", "a", crypto.DefaultAlgorithm,
		"Digest algorithm ("+strings.Join(crypto.Algorithms(), ", ")+")")
	rootCmd.Flags().Uint64Var(&cfg.MaxCandidate, "max-candidate", 0, "Largest candidate to try (0: unbounded, so a bound of candidate 0 alone is not expressible)")
	rootCmd.Flags().DurationVar(&cfg.Timeout, "timeout", 0, "Give up after this long (0: never)")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Also log to this file, rotated")
	rootCmd.Flags().DurationVarP(&cfg.LogInterval, "log-interval", "i", config.DefaultLogInterval, "Progress logging interval")

	return rootCmd
}

func runMiner(parent context.Context) (int, error) {
	if err := cfg.Validate(); err != nil {
		return exitConfig, err
	}

	setupLogging()
	defer func() { _ = logger.Sync() }()

	logger.Printf("PoW: find n such that %s", cfg.GetTargetDescription())
	logger.Printf("Started %d workers", cfg.Workers)
	logger.Println("Please wait...")

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	miner := minerpkg.NewMiner(cfg, logger)
	result, err := miner.Mine(ctx)
	switch {
	case err == nil:
		return report(result)
	case errors.Is(err, context.DeadlineExceeded):
		logger.Printf("No match within %v after %d attempts", cfg.Timeout, miner.Attempts())
		return exitTimeout, err
	case errors.Is(err, context.Canceled):
		logger.Printf("Received interrupt signal. Stopped after %d attempts", miner.Attempts())
		return exitCanceled, nil
	case errors.Is(err, minerpkg.ErrWorkersDisconnected):
		logger.Errorf("Worker threads disconnected: %v", err)
		return exitFault, err
	default:
		return exitGeneric, err
	}
}

// report prints the finding after checking it independently of the workers
func report(result *types.Result) (int, error) {
	verifier := worker.NewVerifier(&types.WorkerConfig{
		Multiplier: cfg.Multiplier,
		Difficulty: cfg.Difficulty,
		Algorithm:  cfg.Algorithm,
	})
	check, ok := verifier.Verify(result.Candidate)
	if !ok || check != result.Finding {
		return exitFault, fmt.Errorf("finding %d failed re-check: got %q (match %v), reported %q",
			result.Candidate, check.Digest, ok, result.Digest)
	}

	logger.Println("Found the solution:")
	logger.Printf("The number is: %d, and hash result is: %s", result.Candidate, result.Digest)
	logger.Printf("Attempts: %d", result.Attempts)
	logger.Printf("Duration: %v", result.Duration)
	logger.Printf("Rate: %.2f hashes/sec", result.Rate())
	return exitSuccess, nil
}

func setupLogging() {
	if cfg.LogFile != "" {
		logger = logpkg.NewFile(cfg.LogFile, cfg.Verbose)
	} else {
		logger = logpkg.New(cfg.Verbose)
	}
}
