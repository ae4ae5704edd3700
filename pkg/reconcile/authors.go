package reconcile

import (
	"context"
	"slices"

	"github.com/agentstation/wdtaxa/pkg/authority"
	"github.com/agentstation/wdtaxa/pkg/authority/indexfungorum"
	"github.com/agentstation/wdtaxa/pkg/candidates"
	"github.com/agentstation/wdtaxa/pkg/citation"
	"github.com/agentstation/wdtaxa/pkg/constants"
	"github.com/agentstation/wdtaxa/pkg/errors"
	"github.com/agentstation/wdtaxa/pkg/logging"
	"github.com/agentstation/wdtaxa/pkg/quickstatements"
	"github.com/agentstation/wdtaxa/pkg/sparql"
	"github.com/agentstation/wdtaxa/pkg/wdqs"
)

// AuthorsRequest adds taxon author qualifiers to the name of every taxon
// of a rank below HigherTaxon that has an Index Fungorum record but no
// taxon author.
type AuthorsRequest struct {
	HigherTaxon string
	Rank        string
}

// authorsTemplate has fixed author slots; unused slots stay blank.
func authorsTemplate() quickstatements.Template {
	cols := []string{"qid", constants.PropTaxonName}
	for range constants.MaxCitationAuthors {
		cols = append(cols, "qal"+constants.PropTaxonAuthor[1:])
	}
	for range constants.MaxCitationExAuthors {
		cols = append(cols, "qal"+constants.PropExTaxonAuthor[1:])
	}
	cols = append(cols, "S"+constants.PropStatedIn[1:], "s"+constants.PropRetrieved[1:], "#")
	return quickstatements.NewTemplate(cols, constants.PropTaxonName)
}

type pendingCitation struct {
	row    wdqs.TaxonAuthorRow
	parsed *citation.Parsed
}

// TaxaMissingAuthors fetches each uniquely named taxon's Index Fungorum
// record, parses its author citation, resolves every author abbreviation
// to a Wikidata item, and emits one row per fully resolved citation.
func (rc *Reconciler) TaxaMissingAuthors(ctx context.Context, req AuthorsRequest) (*Summary, []quickstatements.Row, error) {
	ctx, s := rc.start(ctx, OpCite, "taxon author")
	ctx = logging.WithAuthority(ctx, authority.IndexFungorum.String())
	batch := quickstatements.NewBatch(authorsTemplate())

	if rc.records == nil {
		return rc.finish(ctx, s, batch, errors.NewConfigError("reconcile", "no Index Fungorum source configured", nil))
	}
	query, err := wdqs.TaxaMissingAuthors(req.HigherTaxon, req.Rank)
	if err != nil {
		return rc.finish(ctx, s, batch, err)
	}
	records, err := queryRecords[wdqs.TaxonAuthorRow](ctx, rc.querier, query, s)
	if err != nil {
		return rc.finish(ctx, s, batch, err)
	}
	s.Found = len(records)

	idx := candidates.Group(records, "name")
	s.MissingKey = idx.Missing()
	s.Ambiguous = countAmbiguous(ctx, idx)

	rows, err := sparql.Decode[wdqs.TaxonAuthorRow](idx.Unique())
	if err != nil {
		return rc.finish(ctx, s, batch, err)
	}

	var pending []pendingCitation
	for _, row := range rows {
		if p, ok := rc.parseCitation(logging.WithCandidate(ctx, row.Name), row, s); ok {
			pending = append(pending, p)
		}
	}

	var abbrevs []string
	for _, p := range pending {
		for _, a := range append(slices.Clone(p.parsed.Auth), p.parsed.ExAuth...) {
			if !slices.Contains(abbrevs, a) {
				abbrevs = append(abbrevs, a)
			}
		}
	}
	authors, err := rc.resolveAuthors(ctx, abbrevs)
	if err != nil {
		return rc.finish(ctx, s, batch, err)
	}

	retrieved := authority.Today(rc.now()).String()
	for _, p := range pending {
		auth, ok1 := lookupAll(authors, p.parsed.Auth, constants.MaxCitationAuthors)
		ex, ok2 := lookupAll(authors, p.parsed.ExAuth, constants.MaxCitationExAuthors)
		if !ok1 || !ok2 {
			logging.FromContext(ctx).Debug().
				Str("candidate", p.row.Name).
				Strs("auth", p.parsed.Auth).
				Strs("ex_auth", p.parsed.ExAuth).
				Msg("Author abbreviation not resolved")
			s.Unresolved++
			continue
		}

		values := []string{p.row.Item, p.row.Name}
		values = append(values, auth...)
		values = append(values, ex...)
		values = append(values, indexfungorum.StatedIn, retrieved, "add taxon author from Index Fungorum")
		if err := batch.Add(values...); err != nil {
			return rc.finish(ctx, s, batch, err)
		}
		s.Resolved++
	}
	return rc.finish(ctx, s, batch, nil)
}

// parseCitation fetches and parses one taxon's author citation, counting
// the reason when it cannot be used.
func (rc *Reconciler) parseCitation(ctx context.Context, row wdqs.TaxonAuthorRow, s *Summary) (pendingCitation, bool) {
	log := logging.FromContext(ctx)

	hit, err := rc.records.ByKey(ctx, row.IFID)
	switch {
	case errors.IsNotFound(err):
		s.Unmatched++
		return pendingCitation{}, false
	case err != nil:
		log.Warn().Err(err).Str("ifid", row.IFID).Msg("Record lookup failed")
		s.Failed++
		return pendingCitation{}, false
	case hit.Name != row.Name:
		log.Debug().Str("record_name", hit.Name).Str("ifid", row.IFID).Msg("Record name differs from taxon name")
		s.Unmatched++
		return pendingCitation{}, false
	}

	authors := hit.Field(authority.FieldAuthors)
	parsed, err := citation.Parse(authors)
	if err != nil {
		log.Warn().Err(err).Str("citation", authors).Msg("Skipping unparseable citation")
		s.Unparseable++
		return pendingCitation{}, false
	}
	if len(parsed.Auth) > constants.MaxCitationAuthors || len(parsed.ExAuth) > constants.MaxCitationExAuthors {
		log.Warn().Str("citation", authors).Msg("Skipping citation with too many authors")
		s.Unparseable++
		return pendingCitation{}, false
	}
	return pendingCitation{row: row, parsed: parsed}, true
}

// lookupAll maps abbreviations to items, padding to width with blanks.
// It reports false if any abbreviation is unknown.
func lookupAll(items map[string]string, abbrevs []string, width int) ([]string, bool) {
	out := make([]string, width)
	for i, a := range abbrevs {
		qid, ok := items[a]
		if !ok {
			return nil, false
		}
		out[i] = qid
	}
	return out, true
}

// resolveAuthors maps author abbreviations to the items carrying them as
// botanist author abbreviation. Queries are issued in batches with a
// fixed cool-down between them. An abbreviation held by several items
// stays unresolved. A failed batch leaves its abbreviations unresolved;
// only cancellation aborts.
func (rc *Reconciler) resolveAuthors(ctx context.Context, abbrevs []string) (map[string]string, error) {
	log := logging.FromContext(ctx)

	var records []sparql.Record
	i := -1
	for chunk := range slices.Chunk(abbrevs, constants.AuthorBatchSize) {
		i++
		if i > 0 {
			if err := rc.sleep(ctx, rc.cooldown); err != nil {
				return nil, err
			}
		}
		query, err := wdqs.AuthorAbbreviations(chunk)
		if err != nil {
			return nil, err
		}
		batch, err := queryRecords[wdqs.AbbreviationRow](ctx, rc.querier, query, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Int("batch", i).Int("size", len(chunk)).Msg("Abbreviation query failed")
			continue
		}
		records = append(records, batch...)
	}

	idx := candidates.Group(records, "abbrev")
	resolved := make(map[string]string, idx.Len())
	for _, a := range idx.Keys() {
		rec, ok := idx.Lookup(a)
		if !ok {
			log.Debug().Str("abbrev", a).Int("items", len(idx.Get(a))).Msg("Abbreviation shared by several items")
			continue
		}
		resolved[a] = rec["author"]
	}
	return resolved, nil
}
