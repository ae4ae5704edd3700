// Package app provides the application context and dependency wiring for
// the wdtaxa CLI: configuration, logging, and the lazily built pipeline
// runner with its HTTP clients and authorities.
package app

import (
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/wdtaxa/internal/appcontext"
	"github.com/agentstation/wdtaxa/internal/metrics"
	"github.com/agentstation/wdtaxa/internal/transport"
	"github.com/agentstation/wdtaxa/pkg/authority"
	"github.com/agentstation/wdtaxa/pkg/authority/gbif"
	"github.com/agentstation/wdtaxa/pkg/authority/indexfungorum"
	"github.com/agentstation/wdtaxa/pkg/authority/ipni"
	"github.com/agentstation/wdtaxa/pkg/constants"
	"github.com/agentstation/wdtaxa/pkg/errors"
	"github.com/agentstation/wdtaxa/pkg/reconcile"
	"github.com/agentstation/wdtaxa/pkg/wdqs"
)

// App holds the CLI's configuration and dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config  *Config
	logger  *zerolog.Logger
	metrics *metrics.Recorder

	mu         sync.Mutex
	reconciler *reconcile.Reconciler
}

var _ appcontext.Interface = (*App)(nil)

// New creates an App with configuration loaded from the environment.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	config, err := LoadConfig(os.Getenv("WDTAXA_CONFIG"))
	if err != nil {
		return nil, err
	}

	logger := NewLogger(config)
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		config:  config,
		logger:  &logger,
		metrics: metrics.New(),
	}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Version returns the version string.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Metrics returns the outcome recorder.
func (a *App) Metrics() *metrics.Recorder { return a.metrics }

// OutputFormat returns the summary format flag.
func (a *App) OutputFormat() string { return a.config.Format }

// OutputDir returns the directory for QuickStatements files.
func (a *App) OutputDir() string { return a.config.OutputDir }

// MetricsFile returns the metrics textfile path.
func (a *App) MetricsFile() string { return a.config.MetricsFile }

// Reconciler returns the pipeline runner, creating it on first use.
func (a *App) Reconciler() (*reconcile.Reconciler, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.reconciler != nil {
		return a.reconciler, nil
	}
	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	cache := transport.NewCache(a.config.CacheTTL, constants.CacheCleanupInterval)
	query := transport.New(
		transport.WithUserAgent(a.config.UserAgent),
		transport.WithTimeout(a.config.QueryTimeout),
		transport.WithRateLimit(a.config.RequestsPerSecond),
		transport.WithCache(cache),
	)
	lookups := func() *transport.Client {
		return transport.New(
			transport.WithUserAgent(a.config.UserAgent),
			transport.WithTimeout(a.config.HTTPTimeout),
			transport.WithRateLimit(a.config.RequestsPerSecond),
			transport.WithCache(cache),
		)
	}

	fungorum := indexfungorum.New(lookups(), a.config.IndexFungorumURL)
	registry := authority.NewRegistry(
		ipni.NewAuthority(ipni.New(lookups(), a.config.IPNIURL)),
		gbif.NewAuthority(gbif.New(lookups(), a.config.GBIFURL)),
		indexfungorum.NewAuthority(fungorum),
	)

	rc, err := reconcile.New(wdqs.NewClient(query, a.config.WDQSURL),
		reconcile.WithAuthorities(registry),
		reconcile.WithRecordFetcher(fungorum),
		reconcile.WithCooldown(a.config.BatchCooldown),
		reconcile.WithMetrics(a.metrics),
	)
	if err != nil {
		return nil, errors.NewConfigError("reconciler", "cannot build pipeline", err)
	}
	a.reconciler = rc
	return rc, nil
}

// Option configures an App.
type Option func(*App) error

// WithConfig replaces the loaded configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger replaces the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithReconciler injects a pipeline runner, mainly for tests.
func WithReconciler(rc *reconcile.Reconciler) Option {
	return func(a *App) error {
		a.reconciler = rc
		return nil
	}
}
