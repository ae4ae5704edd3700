package reconcile

import (
	"context"
	"fmt"

	"github.com/agentstation/wdtaxa/pkg/authority"
	"github.com/agentstation/wdtaxa/pkg/candidates"
	"github.com/agentstation/wdtaxa/pkg/constants"
	"github.com/agentstation/wdtaxa/pkg/errors"
	"github.com/agentstation/wdtaxa/pkg/logging"
	"github.com/agentstation/wdtaxa/pkg/quickstatements"
	"github.com/agentstation/wdtaxa/pkg/sparql"
	"github.com/agentstation/wdtaxa/pkg/wdqs"
)

// IdentifyRequest adds Authority's identifier to every taxon of a rank
// below HigherTaxon that lacks one.
type IdentifyRequest struct {
	HigherTaxon string
	Rank        string
	Authority   string
}

// TaxaMissingIdentifier matches each uniquely named taxon against the
// authority and emits an identifier row with a stated-in reference for
// every accepted match.
func (rc *Reconciler) TaxaMissingIdentifier(ctx context.Context, req IdentifyRequest) (*Summary, []quickstatements.Row, error) {
	auth, err := rc.authorities.Get(req.Authority)
	if err != nil {
		ctx, s := rc.start(ctx, OpIdentify, req.Authority+" identifier")
		return rc.finish(ctx, s, quickstatements.NewBatch(quickstatements.Template{}), err)
	}

	ctx, s := rc.start(ctx, OpIdentify, auth.Label+" identifier")
	ctx = logging.WithAuthority(ctx, auth.ID().String())
	batch := quickstatements.NewBatch(quickstatements.NewTemplate(
		[]string{"qid", auth.Property, "S" + constants.PropStatedIn[1:], "s" + constants.PropRetrieved[1:], "#"},
		auth.Property,
	))

	// Hits carry normalized ranks.
	rank := authority.NormalizeRank(req.Rank)
	query, err := wdqs.TaxaMissingIdentifier(req.HigherTaxon, rank, auth.Property)
	if err != nil {
		return rc.finish(ctx, s, batch, err)
	}
	records, err := queryRecords[wdqs.TaxonIdentifierRow](ctx, rc.querier, query, s)
	if err != nil {
		return rc.finish(ctx, s, batch, err)
	}
	s.Found = len(records)

	idx := candidates.Group(records, "name")
	s.MissingKey = idx.Missing()
	s.Ambiguous = countAmbiguous(ctx, idx)

	rows, err := sparql.Decode[wdqs.TaxonIdentifierRow](idx.Unique())
	if err != nil {
		return rc.finish(ctx, s, batch, err)
	}

	matcher := authority.NewMatcher(auth.Source, authority.WithClock(rc.now))
	comment := fmt.Sprintf("add %s identifier", auth.Label)
	for _, row := range rows {
		cctx := logging.WithCandidate(ctx, row.Name)
		log := logging.FromContext(cctx)

		field, value, ok := auth.Disambiguator(rank, wdqs.RankName(row.ParentRank), row.ParentName)
		if !ok {
			log.Debug().
				Str("parent_rank", row.ParentRank).
				Str("parent_name", row.ParentName).
				Msg("No disambiguator for candidate")
			s.Unmatched++
			continue
		}

		hit, err := matcher.Match(cctx, authority.Candidate{Key: row.Name, Rank: rank}, field, value)
		switch {
		case errors.IsNoMatch(err):
			s.Unmatched++
			continue
		case err != nil:
			log.Warn().Err(err).Msg("Authority lookup failed")
			s.Failed++
			continue
		}

		if err := batch.Add(row.Item, hit.ID, auth.StatedIn, hit.Retrieved.String(), comment); err != nil {
			return rc.finish(ctx, s, batch, err)
		}
		s.Resolved++
	}
	return rc.finish(ctx, s, batch, nil)
}

// countAmbiguous returns the number of records excluded because their key
// is shared, logging each excluded key.
func countAmbiguous(ctx context.Context, idx *candidates.Index) int {
	n := 0
	for _, key := range idx.Ambiguous() {
		err := idx.Check(key)
		logging.FromContext(ctx).Debug().Err(err).Msg("Skipping ambiguous candidate")
		n += len(idx.Get(key))
	}
	return n
}
