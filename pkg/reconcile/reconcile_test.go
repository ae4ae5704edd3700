package reconcile

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wdtaxa/internal/metrics"
	"github.com/agentstation/wdtaxa/pkg/authority"
	"github.com/agentstation/wdtaxa/pkg/errors"
	"github.com/agentstation/wdtaxa/pkg/logging"
	"github.com/agentstation/wdtaxa/pkg/quickstatements"
	"github.com/agentstation/wdtaxa/pkg/wdqs"
)

// binding is one SPARQL binding in a fake result row.
type binding struct {
	name, uri, literal string
}

func uri(name, qid string) binding {
	return binding{name: name, uri: "http://www.wikidata.org/entity/" + qid}
}

func lit(name, value string) binding {
	return binding{name: name, literal: value}
}

func resultsXML(rows ...[]binding) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><sparql xmlns="http://www.w3.org/2005/sparql-results#"><head/><results>`)
	for _, row := range rows {
		b.WriteString("<result>")
		for _, bd := range row {
			if bd.uri != "" {
				fmt.Fprintf(&b, `<binding name="%s"><uri>%s</uri></binding>`, bd.name, bd.uri)
			} else {
				fmt.Fprintf(&b, `<binding name="%s"><literal>%s</literal></binding>`, bd.name, bd.literal)
			}
		}
		b.WriteString("</result>")
	}
	b.WriteString("</results></sparql>")
	return []byte(b.String())
}

// fakeQuerier answers each query with the first response whose marker
// occurs in the query text.
type fakeQuerier struct {
	responses []fakeResponse
	queries   []string
}

type fakeResponse struct {
	marker string
	resp   wdqs.Response
}

func (f *fakeQuerier) on(marker string, rows ...[]binding) *fakeQuerier {
	f.responses = append(f.responses, fakeResponse{marker, wdqs.Response{Source: "wdqs", OK: true, StatusCode: 200, Body: resultsXML(rows...)}})
	return f
}

func (f *fakeQuerier) fail(marker string, status int) *fakeQuerier {
	f.responses = append(f.responses, fakeResponse{marker, wdqs.Response{Source: "wdqs", StatusCode: status}})
	return f
}

func (f *fakeQuerier) Query(_ context.Context, query string) (wdqs.Response, error) {
	f.queries = append(f.queries, query)
	for _, r := range f.responses {
		if strings.Contains(query, r.marker) {
			return r.resp, nil
		}
	}
	return wdqs.Response{Source: "wdqs", OK: true, StatusCode: 200, Body: resultsXML()}, nil
}

var fixedNow = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

func newReconciler(t *testing.T, q wdqs.Querier, opts ...Option) *Reconciler {
	t.Helper()
	opts = append([]Option{WithClock(fixedNow), WithCooldown(0)}, opts...)
	rc, err := New(q, opts...)
	require.NoError(t, err)
	return rc
}

func assertRows(t *testing.T, want, got []quickstatements.Row) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestTaxaMissingDescriptions(t *testing.T) {
	q := (&fakeQuerier{}).on("wikibase:language",
		[]binding{uri("item", "Q10"), lit("itemLabel", "Aus bus")},
		[]binding{uri("item", "Q11")},
		[]binding{lit("itemLabel", "no item")},
	)
	rec := metrics.New()
	rc := newReconciler(t, q, WithMetrics(rec))

	s, rows, err := rc.TaxaMissingDescriptions(context.Background(), DescribeTaxaRequest{
		HigherTaxon: "Q1390", Rank: "species", Lang: "fr", Description: "espèce de ciliés",
	})
	require.NoError(t, err)

	assertRows(t, []quickstatements.Row{
		{"qid", "Dfr", "#"},
		{"Q10", `"""espèce de ciliés"""`, "add fr descriptions"},
		{"Q11", `"""espèce de ciliés"""`, "add fr descriptions"},
	}, rows)
	assert.Equal(t, 2, s.Found)
	assert.Equal(t, 1, s.RowErrors)
	assert.Equal(t, 2, s.Resolved)
	assert.Equal(t, 2, s.Rows)
	assert.NotEmpty(t, s.RunID)
	assert.Equal(t, "2 items found without fr descriptions, of which 2 resolved", s.String())
}

func TestTaxaMissingDescriptionsValidation(t *testing.T) {
	rc := newReconciler(t, &fakeQuerier{})

	_, rows, err := rc.TaxaMissingDescriptions(context.Background(), DescribeTaxaRequest{
		HigherTaxon: "Q1", Rank: "species", Lang: "fr",
	})
	assert.True(t, errors.IsValidationError(err))
	assert.Nil(t, rows)

	_, _, err = rc.TaxaMissingDescriptions(context.Background(), DescribeTaxaRequest{
		HigherTaxon: "ciliates", Rank: "species", Lang: "fr", Description: "x",
	})
	assert.True(t, errors.IsValidationError(err))
}

func TestSourceUnavailableIsFatal(t *testing.T) {
	q := (&fakeQuerier{}).fail("wdt:P1433", 503)
	rc := newReconciler(t, q)

	s, rows, err := rc.ArticlesMissingDescriptions(context.Background(), DescribeArticlesRequest{Periodical: "Q5", Lang: "en"})
	assert.True(t, errors.IsSourceUnavailable(err))
	assert.Nil(t, rows)
	assert.Zero(t, s.Found)
}

func TestArticlesMissingDescriptions(t *testing.T) {
	q := (&fakeQuerier{}).on("wdt:P1433 wd:Q5",
		[]binding{uri("item", "Q20"), lit("date", "1998-05-01T00:00:00Z")},
		[]binding{uri("item", "Q21"), lit("date", "2003-01-01T00:00:00Z")},
	)
	rc := newReconciler(t, q)

	_, rows, err := rc.ArticlesMissingDescriptions(context.Background(), DescribeArticlesRequest{Periodical: "Q5", Lang: "en"})
	require.NoError(t, err)
	assertRows(t, []quickstatements.Row{
		{"qid", "Den", "#"},
		{"Q20", `"""scholarly article published in 1998"""`, "add en descriptions"},
		{"Q21", `"""scholarly article published in 2003"""`, "add en descriptions"},
	}, rows)

	_, rows, err = rc.ArticlesMissingDescriptions(context.Background(), DescribeArticlesRequest{
		Periodical: "Q5", Lang: "de", Prefix: "Artikel aus ", Suffix: " (Zeitschrift)",
	})
	require.NoError(t, err)
	assert.Equal(t, `"""Artikel aus 1998 (Zeitschrift)"""`, rows[1][1])
}

type fakeSource struct {
	id   authority.SourceID
	hits map[string][]authority.Hit
	err  map[string]error
}

func (f *fakeSource) ID() authority.SourceID { return f.id }

func (f *fakeSource) Lookup(_ context.Context, q authority.Query) ([]authority.Hit, error) {
	return f.hits[q.Name], f.err[q.Name]
}

func TestTaxaMissingIdentifier(t *testing.T) {
	q := (&fakeQuerier{}).on("wdt:P961 []",
		[]binding{uri("item", "Q1"), lit("name", "Aus bus"), lit("parentName", "X"), uri("parentRank", "Q34740")},
		[]binding{uri("item", "Q2"), lit("name", "Aus cus"), lit("parentName", "X"), uri("parentRank", "Q34740")},
		// two items share a name: never matched
		[]binding{uri("item", "Q3"), lit("name", "Aus dus"), lit("parentName", "X"), uri("parentRank", "Q34740")},
		[]binding{uri("item", "Q4"), lit("name", "Aus dus"), lit("parentName", "Y"), uri("parentRank", "Q34740")},
		// parent rank with no matching field
		[]binding{uri("item", "Q5"), lit("name", "Aus eus"), lit("parentName", "Z"), uri("parentRank", "Q2455704")},
		[]binding{uri("item", "Q6"), lit("name", "Aus fus"), lit("parentName", "X"), uri("parentRank", "Q34740")},
	)

	genus := func(id, name, g string) authority.Hit {
		return authority.Hit{ID: id, Name: name, Fields: map[string]string{"genus": g}}
	}
	src := &fakeSource{
		id: authority.IPNI,
		hits: map[string][]authority.Hit{
			"Aus bus": {genus("1-1", "Aus bus", "X"), genus("1-2", "Aus bus", "Y")},
			"Aus cus": {genus("2-1", "Aus cus", "X"), genus("2-2", "Aus cus", "X")},
			"Aus dus": {genus("3-1", "Aus dus", "X")},
		},
		err: map[string]error{"Aus fus": errors.NewAPIError("ipni", 500, "boom")},
	}
	registry := authority.NewRegistry(&authority.Authority{
		Source: src, Label: "IPNI", Property: "P961", StatedIn: "Q922063",
		ParentFields: []string{"genus", "family"},
	})
	rc := newReconciler(t, q, WithAuthorities(registry))

	s, rows, err := rc.TaxaMissingIdentifier(context.Background(), IdentifyRequest{
		HigherTaxon: "Q764", Rank: "species", Authority: "ipni",
	})
	require.NoError(t, err)

	assertRows(t, []quickstatements.Row{
		{"qid", "P961", "S248", "s813", "#"},
		{"Q1", `"""1-1"""`, "Q922063", "+2024-03-01T00:00:00Z/11", "add IPNI identifier"},
	}, rows)
	assert.Equal(t, 6, s.Found)
	assert.Equal(t, 2, s.Ambiguous)
	assert.Equal(t, 2, s.Unmatched)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Resolved)
	assert.Equal(t, s.Resolved, len(rows)-1)
	assert.Equal(t, s.Found, s.Resolved+s.Excluded())
}

func TestTaxaMissingIdentifierByRank(t *testing.T) {
	rankHit := func(id, name, rank string) authority.Hit {
		return authority.Hit{ID: id, Name: name, Fields: map[string]string{authority.FieldRank: rank}}
	}
	src := &fakeSource{
		id: authority.IndexFungorum,
		hits: map[string][]authority.Hit{
			"Aus bus": {rankHit("100", "Aus bus", "species"), rankHit("101", "Aus bus", "genus")},
		},
	}
	registry := authority.NewRegistry(&authority.Authority{
		Source: src, Label: "Index Fungorum", Property: "P1391", StatedIn: "Q1860469",
	})

	for _, rank := range []string{"species", "Species", " SPECIES ", "sp."} {
		t.Run(rank, func(t *testing.T) {
			q := (&fakeQuerier{}).on("wdt:P1391 []",
				[]binding{uri("item", "Q1"), lit("name", "Aus bus"), lit("parentName", "Aus"), uri("parentRank", "Q34740")},
			)
			rc := newReconciler(t, q, WithAuthorities(registry))

			s, rows, err := rc.TaxaMissingIdentifier(context.Background(), IdentifyRequest{
				HigherTaxon: "Q764", Rank: rank, Authority: "indexfungorum",
			})
			require.NoError(t, err)

			assertRows(t, []quickstatements.Row{
				{"qid", "P1391", "S248", "s813", "#"},
				{"Q1", `"""100"""`, "Q1860469", "+2024-03-01T00:00:00Z/11", "add Index Fungorum identifier"},
			}, rows)
			assert.Equal(t, 1, s.Resolved)
			assert.Zero(t, s.Unmatched)
			assert.Contains(t, q.queries[0], "wd:Q7432")
		})
	}
}

func TestTaxaMissingIdentifierUnknownAuthority(t *testing.T) {
	rc := newReconciler(t, &fakeQuerier{})
	_, _, err := rc.TaxaMissingIdentifier(context.Background(), IdentifyRequest{
		HigherTaxon: "Q764", Rank: "species", Authority: "tropicos",
	})
	assert.True(t, errors.IsNotFound(err))
}

type fakeRecords map[string]*authority.Hit

func (f fakeRecords) ByKey(_ context.Context, key string) (*authority.Hit, error) {
	hit, ok := f[key]
	if !ok {
		return nil, errors.NewNotFoundError("index fungorum record", key)
	}
	return hit, nil
}

func ifRecord(name, authors string) *authority.Hit {
	return &authority.Hit{Name: name, Fields: map[string]string{authority.FieldAuthors: authors}}
}

func TestTaxaMissingAuthors(t *testing.T) {
	q := (&fakeQuerier{}).
		on("wdt:P1391 ?ifid",
			[]binding{uri("item", "Q1"), lit("name", "Tuber lebelii"), lit("ifid", "100")},
			[]binding{uri("item", "Q2"), lit("name", "Boletus edulis"), lit("ifid", "200")},
			[]binding{uri("item", "Q3"), lit("name", "Agaricus x"), lit("ifid", "300")},
			[]binding{uri("item", "Q4"), lit("name", "Agaricus y"), lit("ifid", "400")},
			[]binding{uri("item", "Q5"), lit("name", "Agaricus z"), lit("ifid", "999")},
		).
		on("wdt:P428",
			[]binding{uri("author", "Q100"), lit("abbrev", "Trappe")},
			[]binding{uri("author", "Q101"), lit("abbrev", "T.Lebel")},
			[]binding{uri("author", "Q102"), lit("abbrev", "Castellano")},
			[]binding{uri("author", "Q103"), lit("abbrev", "Fr.")},
			[]binding{uri("author", "Q104"), lit("abbrev", "Bull.")},
			[]binding{uri("author", "Q105"), lit("abbrev", "Bull.")},
		)
	records := fakeRecords{
		"100": ifRecord("Tuber lebelii", "(B.C. Zhang & Y.N. Yu) Trappe, T. Lebel & Castellano"),
		"200": ifRecord("Boletus edulis", "Fr. ex Fr."),
		"300": ifRecord("Agaricus x", "A; B"),
		"400": ifRecord("Agaricus y", "Bull."),
	}
	rc := newReconciler(t, q, WithRecordFetcher(records))
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	s, rows, err := rc.TaxaMissingAuthors(ctx, AuthorsRequest{HigherTaxon: "Q764", Rank: "species"})
	require.NoError(t, err)

	assertRows(t, []quickstatements.Row{
		{"qid", "P225", "qal405", "qal405", "qal405", "qal405", "qal697", "qal697", "S248", "s813", "#"},
		{"Q1", `"""Tuber lebelii"""`, "Q100", "Q101", "Q102", "", "", "", "Q1860469", "+2024-03-01T00:00:00Z/11", "add taxon author from Index Fungorum"},
		{"Q2", `"""Boletus edulis"""`, "Q103", "", "", "", "Q103", "", "Q1860469", "+2024-03-01T00:00:00Z/11", "add taxon author from Index Fungorum"},
	}, rows)
	assert.Equal(t, 5, s.Found)
	assert.Equal(t, 1, s.Unparseable)
	assert.Equal(t, 1, s.Unresolved)
	assert.Equal(t, 1, s.Unmatched)
	assert.Equal(t, 2, s.Resolved)
	assert.Equal(t, s.Found, s.Resolved+s.Excluded())
	assert.True(t, tl.Contains(`"citation":"A; B"`))
	assert.True(t, tl.Contains(`"operation":"cite"`))
}

func TestResolveAuthorsBatchesWithCooldown(t *testing.T) {
	q := &fakeQuerier{}
	var slept []time.Duration
	rc := newReconciler(t, q,
		WithCooldown(2*time.Second),
		WithSleep(func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		}),
	)

	abbrevs := make([]string, 120)
	for i := range abbrevs {
		abbrevs[i] = fmt.Sprintf("A%d.", i)
	}
	resolved, err := rc.resolveAuthors(context.Background(), abbrevs)
	require.NoError(t, err)
	assert.Empty(t, resolved)
	assert.Len(t, q.queries, 3)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, slept)
}

func TestResolveAuthorsHonoursCancellation(t *testing.T) {
	rc, err := New(&fakeQuerier{}, WithCooldown(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	abbrevs := make([]string, 60)
	for i := range abbrevs {
		abbrevs[i] = fmt.Sprintf("B%d.", i)
	}
	_, err = rc.resolveAuthors(ctx, abbrevs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsNegativeCooldown(t *testing.T) {
	_, err := New(&fakeQuerier{}, WithCooldown(-time.Second))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(nil)
	assert.True(t, errors.IsValidationError(err))
}
