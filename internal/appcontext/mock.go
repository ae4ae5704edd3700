package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/wdtaxa/internal/metrics"
	"github.com/agentstation/wdtaxa/pkg/reconcile"
)

// Mock is an Interface for command tests. Unset fields yield zero values
// and a no-op logger.
type Mock struct {
	ReconcilerFunc func() (*reconcile.Reconciler, error)
	Recorder       *metrics.Recorder
	Log            *zerolog.Logger
	Format         string
	Dir            string
	MetricsPath    string
	VersionString  string
}

var _ Interface = (*Mock)(nil)

// Reconciler implements Interface.
func (m *Mock) Reconciler() (*reconcile.Reconciler, error) {
	if m.ReconcilerFunc != nil {
		return m.ReconcilerFunc()
	}
	return nil, nil
}

// Metrics implements Interface.
func (m *Mock) Metrics() *metrics.Recorder {
	if m.Recorder == nil {
		m.Recorder = metrics.New()
	}
	return m.Recorder
}

// Logger implements Interface.
func (m *Mock) Logger() *zerolog.Logger {
	if m.Log != nil {
		return m.Log
	}
	nop := zerolog.Nop()
	return &nop
}

// OutputFormat implements Interface.
func (m *Mock) OutputFormat() string { return m.Format }

// OutputDir implements Interface.
func (m *Mock) OutputDir() string { return m.Dir }

// MetricsFile implements Interface.
func (m *Mock) MetricsFile() string { return m.MetricsPath }

// Version implements Interface.
func (m *Mock) Version() string { return m.VersionString }

// Commit implements Interface.
func (m *Mock) Commit() string { return "" }

// Date implements Interface.
func (m *Mock) Date() string { return "" }

// BuiltBy implements Interface.
func (m *Mock) BuiltBy() string { return "" }
