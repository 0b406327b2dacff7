package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/screa/pow-miner/internal/config"
	logpkg "github.com/screa/pow-miner/internal/logger"
	"github.com/screa/pow-miner/pkg/types"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{"finds easy target", []string{"-d", "0", "-w", "2"}, exitSuccess},
		{"keccak", []string{"-d", "0", "-a", "keccak256"}, exitSuccess},
		{"invalid config", []string{"-w", "0", "-d", "ZZ"}, exitConfig},
		{"bounded search faults", []string{"-d", "0", "-w", "4", "--max-candidate", "39"}, exitFault},
		{"timeout", []string{"-d", "0000000000000000", "--timeout", "50ms"}, exitTimeout},
		{"unknown flag", []string{"--bogus"}, exitGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, run(tt.args))
		})
	}
}

func TestDefaults(t *testing.T) {
	code := exitSuccess
	cmd := newRootCmd(&code)

	require.Equal(t, "8", cmd.Flags().Lookup("workers").DefValue)
	require.Equal(t, "42", cmd.Flags().Lookup("multiplier").DefValue)
	require.Equal(t, "00000", cmd.Flags().Lookup("difficulty").DefValue)
	require.Equal(t, "sha256", cmd.Flags().Lookup("algorithm").DefValue)
	require.Equal(t, "5s", cmd.Flags().Lookup("log-interval").DefValue)

	maxCandidate := cmd.Flags().Lookup("max-candidate")
	require.Equal(t, "0", maxCandidate.DefValue)
	require.Contains(t, maxCandidate.Usage, "0: unbounded")
}

func TestReportRecheck(t *testing.T) {
	cfg = config.NewConfig()
	cfg.Difficulty = "0"
	logger = logpkg.NewZap(zaptest.NewLogger(t))

	const digest40 = "0ebe0fb634f8e4aca93dcdea090d01120e73df4c7da22888c595b593da608c78"
	tests := []struct {
		name     string
		finding  types.Finding
		expected int
	}{
		{"genuine finding", types.Finding{Candidate: 40, Digest: digest40}, exitSuccess},
		{"forged digest", types.Finding{Candidate: 40, Digest: "0" + digest40[1:63] + "0"}, exitFault},
		{"candidate misses target", types.Finding{Candidate: 39, Digest: digest40}, exitFault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := report(&types.Result{Finding: tt.finding, Attempts: 41})
			require.Equal(t, tt.expected, code)
			if tt.expected == exitSuccess {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
