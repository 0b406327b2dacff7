package miner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/screa/pow-miner/internal/config"
	"github.com/screa/pow-miner/internal/logger"
	"github.com/screa/pow-miner/internal/metrics"
	"github.com/screa/pow-miner/pkg/types"
	"github.com/screa/pow-miner/pkg/worker"
)

// ErrWorkersDisconnected means every worker returned without sending a finding.
// It is a coordination fault, never retried.
var ErrWorkersDisconnected = errors.New("worker pool disconnected without a finding")

// Miner coordinates a fixed pool of workers searching for a proof-of-work candidate
type Miner struct {
	config       *config.Config
	logger       *logger.Logger
	metrics      *metrics.Metrics
	workerConfig *types.WorkerConfig

	attempts atomic.Int64
	found    atomic.Bool // set once a finding exists or the run is cancelled

	result *types.Result
	mu     sync.RWMutex
	done   chan struct{}
	once   sync.Once
}

// NewMiner creates a new miner instance. cfg must already be validated.
func NewMiner(cfg *config.Config, log *logger.Logger) *Miner {
	return &Miner{
		config:  cfg,
		logger:  log,
		metrics: metrics.New(),
		workerConfig: &types.WorkerConfig{
			Multiplier:   cfg.Multiplier,
			Difficulty:   cfg.Difficulty,
			Algorithm:    cfg.Algorithm,
			Stride:       uint64(cfg.Workers),
			MaxCandidate: cfg.MaxCandidate,
		},
		done: make(chan struct{}),
	}
}

// Mine runs the search and returns the first finding delivered by any worker.
// It returns ctx.Err() when ctx ends or Stop is called first, and
// ErrWorkersDisconnected when every worker gave up. All workers have returned
// by the time Mine does. A Miner mines once.
func (m *Miner) Mine(ctx context.Context) (*types.Result, error) {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-m.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	// workers only poll the flag, so cancellation is folded into it
	stopFlag := context.AfterFunc(ctx, func() { m.found.Store(true) })
	defer stopFlag()

	// one slot per worker: no send can ever block
	results := make(chan types.Finding, m.config.Workers)

	var g errgroup.Group
	for i := 0; i < m.config.Workers; i++ {
		id := i
		g.Go(func() error {
			return m.runWorker(id, results)
		})
	}

	var poolErr error
	go func() {
		poolErr = g.Wait()
		close(results)
	}()

	if m.config.Verbose {
		logTicker := time.NewTicker(m.config.LogInterval)
		logDone := make(chan struct{})
		go m.periodicLogger(logTicker, logDone, start)
		defer func() {
			logTicker.Stop()
			close(logDone)
		}()

		m.logger.Debugf("Mining started with %d workers, logging every %v...",
			m.config.Workers, m.config.LogInterval)
	}

	finding, ok := m.collect(results)
	if !ok {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if poolErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrWorkersDisconnected, poolErr)
		}
		return nil, ErrWorkersDisconnected
	}

	m.metrics.Findings.Inc()
	result := &types.Result{
		Finding:  finding,
		Attempts: m.attempts.Load(),
		Duration: time.Since(start),
		Workers:  m.config.Workers,
	}
	m.mu.Lock()
	m.result = result
	m.mu.Unlock()

	return result, nil
}

// collect takes the first finding, then stops the pool and drains results
// until it is closed. Late findings from the benign race are dropped.
func (m *Miner) collect(results <-chan types.Finding) (types.Finding, bool) {
	finding, ok := <-results
	m.found.Store(true)

	discarded := 0
	for range results {
		discarded++
	}
	if discarded > 0 {
		m.metrics.Discarded.Add(float64(discarded))
		m.logger.Debugf("Discarded %d late findings", discarded)
	}
	return finding, ok
}

// runWorker runs one worker, turning a panic into an error for the pool
func (m *Miner) runWorker(id int, results chan<- types.Finding) (err error) {
	m.metrics.ActiveWorkers.Inc()
	defer m.metrics.ActiveWorkers.Dec()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d panicked: %v", id, r)
			m.logger.Errorf("Worker %d crashed: %v", id, r)
		}
	}()

	w := worker.NewWorker(id, m.workerConfig, &m.attempts, m.metrics.Candidates(id))
	log := m.logger.Named(fmt.Sprintf("worker-%d", w.ID()))
	w.Run(&m.found, results)
	log.Debugf("Worker stopped after %d candidates", w.Examined())
	return nil
}

// Stop stops the mining process
func (m *Miner) Stop() {
	m.once.Do(func() { close(m.done) })
}

// GetResult returns the finding of a completed run, or nil
func (m *Miner) GetResult() *types.Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.result
}

// Attempts returns the number of candidates hashed so far
func (m *Miner) Attempts() int64 {
	return m.attempts.Load()
}

// Metrics exposes the run's counters
func (m *Miner) Metrics() *metrics.Metrics {
	return m.metrics
}

// periodicLogger logs mining progress at regular intervals
func (m *Miner) periodicLogger(ticker *time.Ticker, done chan struct{}, start time.Time) {
	expected := m.config.ExpectedAttempts()
	for {
		select {
		case <-ticker.C:
			attempts := m.attempts.Load()
			elapsed := time.Since(start)

			// Calculate rate safely
			rate := 0.0
			if elapsed.Seconds() > 0 {
				rate = float64(attempts) / elapsed.Seconds()
			}

			m.logger.Debugf("Progress: %d attempts (%.1f%% of expected), %.2f hashes/sec, %d workers active",
				attempts, 100*float64(attempts)/expected, rate, m.metrics.Active())
		case <-done:
			return
		}
	}
}
