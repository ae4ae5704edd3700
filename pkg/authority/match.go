package authority

import (
	"context"
	"time"

	"github.com/agentstation/wdtaxa/pkg/errors"
	"github.com/agentstation/wdtaxa/pkg/logging"
)

// Reduce filters items with keep and returns the first survivor together
// with the number of survivors.
func Reduce[T any](items []T, keep func(T) bool) (T, int) {
	var first T
	n := 0
	for _, item := range items {
		if !keep(item) {
			continue
		}
		if n == 0 {
			first = item
		}
		n++
	}
	return first, n
}

// ReduceToUnique returns the only item accepted by keep. It reports false
// when no item or more than one item survives; there is no "pick first".
func ReduceToUnique[T any](items []T, keep func(T) bool) (T, bool) {
	item, n := Reduce(items, keep)
	if n != 1 {
		var zero T
		return zero, false
	}
	return item, true
}

// Candidate is a unique record key submitted for matching.
type Candidate struct {
	Key  string
	Rank string
}

// Matcher applies the accept-only-if-unique policy to one authority.
type Matcher struct {
	source Source
	now    func() time.Time
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithClock sets the clock used to stamp accepted hits.
func WithClock(now func() time.Time) MatcherOption {
	return func(m *Matcher) {
		m.now = now
	}
}

// NewMatcher creates a matcher for a source.
func NewMatcher(source Source, opts ...MatcherOption) *Matcher {
	m := &Matcher{source: source, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match looks the candidate up and keeps the hits whose name equals the
// candidate key and whose field equals value, both exactly. Exactly one
// survivor is accepted and stamped with today's retrieval date. Anything
// else returns an error matching errors.ErrNoAuthorityMatch; a failed
// lookup returns the source's error.
func (m *Matcher) Match(ctx context.Context, c Candidate, field, value string) (*Hit, error) {
	log := logging.FromContext(ctx)

	hits, err := m.source.Lookup(ctx, Query{Name: c.Key, Rank: c.Rank})
	if err != nil {
		log.Debug().Err(err).Msg("Authority lookup failed")
		return nil, err
	}

	hit, n := Reduce(hits, func(h Hit) bool {
		return h.Name == c.Key && h.Field(field) == value
	})
	if n != 1 {
		log.Debug().
			Int("hits", len(hits)).
			Int("survivors", n).
			Str("field", field).
			Str("value", value).
			Msg("No unique authority match")
		return nil, &errors.MatchError{
			Source:    m.source.ID().String(),
			Key:       c.Key,
			Hits:      len(hits),
			Survivors: n,
		}
	}

	hit.Retrieved = Today(m.now())
	return &hit, nil
}
