// Package metrics exposes prometheus counters and gauges for the sequencer.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "amm"

type Metrics struct {
	registry *prometheus.Registry

	commits            prometheus.Counter
	swaps              prometheus.Counter
	withdraws          prometheus.Counter
	mismatches         prometheus.Counter
	liquidityFailures  prometheus.Counter
	outputTotal        prometheus.Counter
	reserveBase        prometheus.Gauge
	reserveQuote       prometheus.Gauge
	pendingCommitments prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits",
			Help:      "number of accepted commitments",
		}),
		swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swaps",
			Help:      "number of executed swaps",
		}),
		withdraws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdraws",
			Help:      "number of withdrawals",
		}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commitment_mismatches",
			Help:      "number of reveals without a matching commitment",
		}),
		liquidityFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "liquidity_failures",
			Help:      "number of reveals rejected by the pool",
		}),
		outputTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "output_total",
			Help:      "sum of swap outputs paid by the pool",
		}),
		reserveBase: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reserve_base",
			Help:      "current base reserve",
		}),
		reserveQuote: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reserve_quote",
			Help:      "current quote reserve",
		}),
		pendingCommitments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_commitments",
			Help:      "commitments waiting for a reveal",
		}),
	}
	errs := make([]error, 0)
	for _, c := range []prometheus.Collector{
		m.commits,
		m.swaps,
		m.withdraws,
		m.mismatches,
		m.liquidityFailures,
		m.outputTotal,
		m.reserveBase,
		m.reserveQuote,
		m.pendingCommitments,
	} {
		errs = append(errs, m.registry.Register(c))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) Committed(pending int) {
	m.commits.Inc()
	m.pendingCommitments.Set(float64(pending))
}

func (m *Metrics) Swapped(output uint64, base, quote uint64, pending int) {
	m.swaps.Inc()
	m.outputTotal.Add(float64(output))
	m.setReserves(base, quote)
	m.pendingCommitments.Set(float64(pending))
}

func (m *Metrics) Withdrawn() {
	m.withdraws.Inc()
	m.setReserves(0, 0)
}

func (m *Metrics) Mismatch() {
	m.mismatches.Inc()
}

func (m *Metrics) LiquidityFailure(pending int) {
	m.liquidityFailures.Inc()
	m.pendingCommitments.Set(float64(pending))
}

// Reserves records the pool reserves, used once at startup.
func (m *Metrics) Reserves(base, quote uint64) {
	m.setReserves(base, quote)
}

func (m *Metrics) setReserves(base, quote uint64) {
	m.reserveBase.Set(float64(base))
	m.reserveQuote.Set(float64(quote))
}

// Gatherer returns the registry holding every collector.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Gatherer(), promhttp.HandlerOpts{})
}

// Snapshot returns the current value of every counter and gauge keyed by its
// fully qualified name.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	families, err := m.Gatherer().Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(families))
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				out[f.GetName()] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[f.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}
