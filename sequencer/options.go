package sequencer

import (
	"log/slog"

	"github.com/luca-patrignani/sequenced-amm/metrics"
)

type Option func(*Sequencer)

// WithLogger sets the logger used to report accepted and rejected steps.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records every step on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sequencer) {
		s.metrics = m
	}
}
