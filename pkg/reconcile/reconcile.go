// Package reconcile runs the end-to-end pipelines: query Wikidata for
// items lacking a statement, match them against an authority where
// needed, and emit QuickStatements rows for the accepted decisions.
//
// A pipeline always runs to completion. Per-item failures are counted
// in the returned Summary; only an invalid request or an unavailable
// primary query aborts it.
package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/wdtaxa/internal/metrics"
	"github.com/agentstation/wdtaxa/pkg/authority"
	"github.com/agentstation/wdtaxa/pkg/constants"
	"github.com/agentstation/wdtaxa/pkg/errors"
	"github.com/agentstation/wdtaxa/pkg/logging"
	"github.com/agentstation/wdtaxa/pkg/quickstatements"
	"github.com/agentstation/wdtaxa/pkg/wdqs"
)

// RecordFetcher fetches a single authority record by its identifier.
type RecordFetcher interface {
	ByKey(ctx context.Context, key string) (*authority.Hit, error)
}

// Reconciler holds the collaborators shared by the pipelines.
type Reconciler struct {
	querier     wdqs.Querier
	authorities *authority.Registry
	records     RecordFetcher
	recorder    *metrics.Recorder
	cooldown    time.Duration
	now         func() time.Time
	sleep       func(context.Context, time.Duration) error
}

// Option configures a Reconciler.
type Option func(*Reconciler) error

// WithAuthorities sets the authorities available to TaxaMissingIdentifier.
func WithAuthorities(r *authority.Registry) Option {
	return func(rc *Reconciler) error {
		rc.authorities = r
		return nil
	}
}

// WithRecordFetcher sets the source of author citations for TaxaMissingAuthors.
func WithRecordFetcher(f RecordFetcher) Option {
	return func(rc *Reconciler) error {
		rc.records = f
		return nil
	}
}

// WithMetrics records every run's outcome counts.
func WithMetrics(m *metrics.Recorder) Option {
	return func(rc *Reconciler) error {
		rc.recorder = m
		return nil
	}
}

// WithCooldown sets the pause between batched queries.
func WithCooldown(d time.Duration) Option {
	return func(rc *Reconciler) error {
		if d < 0 {
			return errors.NewValidationError("batch_cooldown", d, "must not be negative")
		}
		rc.cooldown = d
		return nil
	}
}

// WithClock sets the clock used for retrieval dates.
func WithClock(now func() time.Time) Option {
	return func(rc *Reconciler) error {
		rc.now = now
		return nil
	}
}

// WithSleep replaces the cool-down wait.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(rc *Reconciler) error {
		rc.sleep = sleep
		return nil
	}
}

// New creates a Reconciler on a query service.
func New(q wdqs.Querier, opts ...Option) (*Reconciler, error) {
	if q == nil {
		return nil, errors.NewValidationError("querier", nil, "a query service is required")
	}
	rc := &Reconciler{
		querier:     q,
		authorities: authority.NewRegistry(),
		cooldown:    constants.DefaultBatchCooldown,
		now:         time.Now,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		if err := opt(rc); err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// Authorities returns the configured authority registry.
func (rc *Reconciler) Authorities() *authority.Registry {
	return rc.authorities
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// start opens a run: a fresh run ID and a logger carrying it.
func (rc *Reconciler) start(ctx context.Context, op, subject string) (context.Context, *Summary) {
	s := &Summary{Operation: op, Subject: subject, RunID: uuid.NewString()}
	ctx = logging.WithRunID(ctx, s.RunID)
	ctx = logging.WithOperation(ctx, op)
	logging.FromContext(ctx).Info().Str("subject", subject).Msg("Starting run")
	return ctx, s
}

// finish closes a run: logs and records the summary and returns the
// emitted rows, header first.
func (rc *Reconciler) finish(ctx context.Context, s *Summary, batch *quickstatements.Batch, err error) (*Summary, []quickstatements.Row, error) {
	log := logging.FromContext(ctx)
	if rc.recorder != nil {
		rc.recorder.Run(s.Operation, err)
	}
	if err != nil {
		log.Error().Err(err).Msg("Run failed")
		return s, nil, err
	}

	s.Rows = batch.Len()
	if rc.recorder != nil {
		s.record(rc.recorder)
	}
	log.Info().
		Int("found", s.Found).
		Int("resolved", s.Resolved).
		Int("ambiguous", s.Ambiguous).
		Int("unmatched", s.Unmatched).
		Int("unparseable", s.Unparseable).
		Int("unresolved", s.Unresolved).
		Int("failed", s.Failed).
		Msg(s.String())
	return s, batch.Rows(), nil
}
