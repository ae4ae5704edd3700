// Package appcontext defines what commands need from the application, so
// command packages can be tested without building the real app.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/wdtaxa/internal/metrics"
	"github.com/agentstation/wdtaxa/pkg/reconcile"
)

// Interface is implemented by cmd/wdtaxa/app.App.
type Interface interface {
	// Reconciler returns the pipeline runner, building it on first use.
	Reconciler() (*reconcile.Reconciler, error)

	// Metrics returns the process-wide outcome recorder.
	Metrics() *metrics.Recorder

	Logger() *zerolog.Logger

	// OutputFormat is the summary format: table, json or yaml.
	OutputFormat() string

	// OutputDir is where QuickStatements files are written.
	OutputDir() string

	// MetricsFile is the textfile path for metrics; empty disables export.
	MetricsFile() string

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
