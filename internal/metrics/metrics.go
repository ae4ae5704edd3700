// Package metrics counts reconciliation outcomes with Prometheus
// collectors. A run exports its counters once, to a node-exporter
// textfile, rather than serving them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentstation/wdtaxa/pkg/errors"
)

const namespace = "wdtaxa"

// Outcome labels.
const (
	OutcomeFound       = "found"
	OutcomeResolved    = "resolved"
	OutcomeAmbiguous   = "ambiguous"
	OutcomeMissingKey  = "missing_key"
	OutcomeRowError    = "row_error"
	OutcomeUnmatched   = "unmatched"
	OutcomeUnparseable = "unparseable"
	OutcomeUnresolved  = "unresolved"
	OutcomeFailed      = "failed"
)

// Recorder holds the collectors of one process.
type Recorder struct {
	registry *prometheus.Registry
	outcomes *prometheus.CounterVec
	rows     *prometheus.CounterVec
	runs     *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Items seen by a pipeline, by outcome.",
		}, []string{"operation", "outcome"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edit_rows_total",
			Help:      "QuickStatements rows emitted, excluding headers.",
		}, []string{"operation"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs, by result.",
		}, []string{"operation", "result"}),
	}
	r.registry.MustRegister(r.outcomes, r.rows, r.runs)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Add increments an outcome counter by n.
func (r *Recorder) Add(operation, outcome string, n int) {
	if n <= 0 {
		return
	}
	r.outcomes.WithLabelValues(operation, outcome).Add(float64(n))
}

// Rows increments the emitted row counter.
func (r *Recorder) Rows(operation string, n int) {
	if n <= 0 {
		return
	}
	r.rows.WithLabelValues(operation).Add(float64(n))
}

// Run records one completed or failed pipeline run.
func (r *Recorder) Run(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.runs.WithLabelValues(operation, result).Inc()
}

// WriteTextfile writes the current values in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
