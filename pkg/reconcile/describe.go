package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentstation/wdtaxa/pkg/errors"
	"github.com/agentstation/wdtaxa/pkg/logging"
	"github.com/agentstation/wdtaxa/pkg/quickstatements"
	"github.com/agentstation/wdtaxa/pkg/sparql"
	"github.com/agentstation/wdtaxa/pkg/wdqs"
)

// DefaultArticlePrefix starts generated article descriptions.
const DefaultArticlePrefix = "scholarly article published in "

// DescribeTaxaRequest adds one description to every taxon of a rank
// below HigherTaxon that lacks a description in Lang.
type DescribeTaxaRequest struct {
	HigherTaxon string
	Rank        string
	Lang        string
	Description string
}

// DescribeArticlesRequest adds "<Prefix><year><Suffix>" to every
// scholarly article published in Periodical that lacks a description in
// Lang. An empty Prefix selects DefaultArticlePrefix.
type DescribeArticlesRequest struct {
	Periodical string
	Lang       string
	Prefix     string
	Suffix     string
}

func descriptionTemplate(lang string) quickstatements.Template {
	col := "D" + lang
	return quickstatements.NewTemplate([]string{"qid", col, "#"}, col)
}

// TaxaMissingDescriptions emits a description row for every taxon found.
func (rc *Reconciler) TaxaMissingDescriptions(ctx context.Context, req DescribeTaxaRequest) (*Summary, []quickstatements.Row, error) {
	ctx, s := rc.start(ctx, OpDescribeTaxa, req.Lang+" descriptions")
	batch := quickstatements.NewBatch(descriptionTemplate(req.Lang))

	if strings.TrimSpace(req.Description) == "" {
		return rc.finish(ctx, s, batch, errors.NewValidationError("description", req.Description, "must not be empty"))
	}
	query, err := wdqs.TaxaMissingDescriptions(req.HigherTaxon, req.Rank, req.Lang)
	if err != nil {
		return rc.finish(ctx, s, batch, err)
	}

	rows, err := queryInto[wdqs.TaxonDescriptionRow](ctx, rc.querier, query, s)
	if err != nil {
		return rc.finish(ctx, s, batch, err)
	}

	comment := fmt.Sprintf("add %s descriptions", req.Lang)
	for _, row := range rows {
		if err := batch.Add(row.Item, req.Description, comment); err != nil {
			return rc.finish(ctx, s, batch, err)
		}
		s.Resolved++
	}
	return rc.finish(ctx, s, batch, nil)
}

// ArticlesMissingDescriptions emits a dated description row for every
// article found.
func (rc *Reconciler) ArticlesMissingDescriptions(ctx context.Context, req DescribeArticlesRequest) (*Summary, []quickstatements.Row, error) {
	ctx, s := rc.start(ctx, OpDescribeArticles, req.Lang+" descriptions")
	batch := quickstatements.NewBatch(descriptionTemplate(req.Lang))

	prefix := req.Prefix
	if prefix == "" {
		prefix = DefaultArticlePrefix
	}
	query, err := wdqs.ArticlesMissingDescriptions(req.Periodical, req.Lang)
	if err != nil {
		return rc.finish(ctx, s, batch, err)
	}

	rows, err := queryInto[wdqs.ArticleRow](ctx, rc.querier, query, s)
	if err != nil {
		return rc.finish(ctx, s, batch, err)
	}

	comment := fmt.Sprintf("add %s descriptions", req.Lang)
	for _, row := range rows {
		if err := batch.Add(row.Item, prefix+row.Year()+req.Suffix, comment); err != nil {
			return rc.finish(ctx, s, batch, err)
		}
		s.Resolved++
	}
	return rc.finish(ctx, s, batch, nil)
}

// queryInto runs a query and decodes its rows as T, counting found items
// and row errors into s.
func queryInto[T any](ctx context.Context, q wdqs.Querier, query string, s *Summary) ([]T, error) {
	records, err := queryRecords[T](ctx, q, query, s)
	if err != nil {
		return nil, err
	}
	s.Found = len(records)
	return sparql.Decode[T](records)
}

// queryRecords runs a query and parses it against the shape of T.
func queryRecords[T any](ctx context.Context, q wdqs.Querier, query string, s *Summary) ([]sparql.Record, error) {
	spec, err := sparql.SpecOf[T]()
	if err != nil {
		return nil, err
	}
	resp, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	records, report, err := sparql.Parse(ctx, resp, spec)
	if err != nil {
		return nil, err
	}
	if s != nil {
		s.RowErrors += report.Skipped()
	}
	logging.FromContext(ctx).Debug().
		Int("rows", report.Rows).
		Int("records", report.Records).
		Msg("Parsed query results")
	return records, nil
}
