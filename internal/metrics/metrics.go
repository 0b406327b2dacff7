package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "powminer"

// Metrics groups the counters of one mining run. Each run owns its registry
// so concurrent miners (and tests) do not share state.
type Metrics struct {
	Registry *prometheus.Registry

	candidates    *prometheus.CounterVec
	Findings      prometheus.Counter
	Discarded     prometheus.Counter
	ActiveWorkers prometheus.Gauge
}

// New registers a fresh set of run metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		candidates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_hashed_total",
			Help:      "Number of candidates hashed, per worker",
		}, []string{"worker"}),
		Findings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Number of findings consumed by the coordinator",
		}),
		Discarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_discarded_total",
			Help:      "Findings sent after the first one and dropped",
		}),
		ActiveWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_workers",
			Help:      "Workers currently searching",
		}),
	}
}

// Candidates returns the hashed counter for one worker
func (m *Metrics) Candidates(worker int) prometheus.Counter {
	return m.candidates.WithLabelValues(strconv.Itoa(worker))
}

// TotalCandidates sums the hashed counters over all workers
func (m *Metrics) TotalCandidates() float64 {
	return m.sum(namespace + "_candidates_hashed_total")
}

// Active returns the number of workers still searching
func (m *Metrics) Active() int {
	return int(m.sum(namespace + "_active_workers"))
}

func (m *Metrics) sum(name string) float64 {
	families, err := m.Registry.Gather()
	if err != nil {
		return 0
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if g := metric.GetGauge(); g != nil {
				total += g.GetValue()
			}
		}
	}
	return total
}
