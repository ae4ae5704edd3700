package reconcile

import (
	"fmt"

	"github.com/agentstation/wdtaxa/internal/metrics"
)

// Operation names.
const (
	OpDescribeTaxa     = "describe-taxa"
	OpDescribeArticles = "describe-articles"
	OpIdentify         = "identify"
	OpCite             = "cite"
)

// Summary reports what a pipeline run found and what it resolved.
// Every item counted in Found ends in exactly one of Resolved or the
// exclusion counters, except RowErrors which were never items.
type Summary struct {
	Operation string `json:"operation" yaml:"operation"`
	Subject   string `json:"subject" yaml:"subject"`
	RunID     string `json:"run_id" yaml:"run_id"`

	// Found is the number of items the query returned.
	Found int `json:"found" yaml:"found"`
	// RowErrors counts result rows that could not be parsed.
	RowErrors int `json:"row_errors" yaml:"row_errors"`
	// MissingKey counts items without a grouping key.
	MissingKey int `json:"missing_key" yaml:"missing_key"`
	// Ambiguous counts items whose key is shared with another item.
	Ambiguous int `json:"ambiguous" yaml:"ambiguous"`
	// Unmatched counts items with no unique authority match.
	Unmatched int `json:"unmatched" yaml:"unmatched"`
	// Unparseable counts items whose author citation was rejected.
	Unparseable int `json:"unparseable" yaml:"unparseable"`
	// Unresolved counts items with an author abbreviation not uniquely
	// known to Wikidata.
	Unresolved int `json:"unresolved" yaml:"unresolved"`
	// Failed counts items whose authority lookup errored.
	Failed int `json:"failed" yaml:"failed"`
	// Resolved counts items that produced an edit row.
	Resolved int `json:"resolved" yaml:"resolved"`
	// Rows is the number of data rows emitted, equal to Resolved.
	Rows int `json:"rows" yaml:"rows"`
}

// String renders the run's headline.
func (s *Summary) String() string {
	return fmt.Sprintf("%d items found without %s, of which %d resolved", s.Found, s.Subject, s.Resolved)
}

// Excluded returns the number of found items that were not resolved.
func (s *Summary) Excluded() int {
	return s.MissingKey + s.Ambiguous + s.Unmatched + s.Unparseable + s.Unresolved + s.Failed
}

func (s *Summary) record(r *metrics.Recorder) {
	op := s.Operation
	r.Add(op, metrics.OutcomeFound, s.Found)
	r.Add(op, metrics.OutcomeResolved, s.Resolved)
	r.Add(op, metrics.OutcomeRowError, s.RowErrors)
	r.Add(op, metrics.OutcomeMissingKey, s.MissingKey)
	r.Add(op, metrics.OutcomeAmbiguous, s.Ambiguous)
	r.Add(op, metrics.OutcomeUnmatched, s.Unmatched)
	r.Add(op, metrics.OutcomeUnparseable, s.Unparseable)
	r.Add(op, metrics.OutcomeUnresolved, s.Unresolved)
	r.Add(op, metrics.OutcomeFailed, s.Failed)
	r.Rows(op, s.Rows)
}
