// Package metrics exports compile statistics in the Prometheus textfile
// format, for pickup by a node exporter textfile collector.
package metrics

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"

	"grammargen/internal/grammar"
)

const namespace = "grammargen"

// Report is one run of the command.
type Report struct {
	Grammar       string
	Rules         int
	Stats         grammar.Stats
	Possibilities *big.Int // nil when not computed
}

// Registry builds a registry holding the gauges of r.
func Registry(r Report) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"grammar": r.Grammar}

	rules := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "rules",
		Help:        "Rules loaded from the grammar file.",
		ConstLabels: labels,
	})
	rules.Set(float64(r.Rules))

	events := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "compile_events",
		Help:        "Reference resolutions during compilation, by outcome.",
		ConstLabels: labels,
	}, []string{"event"})
	events.WithLabelValues("expanded").Set(float64(r.Stats.Expanded))
	events.WithLabelValues("cache_hit").Set(float64(r.Stats.CacheHits))
	events.WithLabelValues("cutoff").Set(float64(r.Stats.Cutoffs))
	events.WithLabelValues("cache_suppressed").Set(float64(r.Stats.Suppressed))

	reg.MustRegister(rules, events)

	if r.Possibilities != nil {
		possible := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "possibilities",
			Help:        "Distinct strings the start rule can produce. Large counts lose precision.",
			ConstLabels: labels,
		})
		f, _ := new(big.Float).SetInt(r.Possibilities).Float64()
		possible.Set(f)
		reg.MustRegister(possible)
	}
	return reg
}

// WriteTextfile writes the metrics of r to path atomically.
func WriteTextfile(path string, r Report) error {
	return prometheus.WriteToTextfile(path, Registry(r))
}
