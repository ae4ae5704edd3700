// Package indexfungorum looks fungal names up in Index Fungorum's web
// service. Both NameSearch and NameByKey answer with a .NET DataSet
// document whose rows are IndexFungorum elements.
package indexfungorum

import (
	"context"
	"encoding/xml"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/wdtaxa/internal/transport"
	"github.com/agentstation/wdtaxa/pkg/authority"
	"github.com/agentstation/wdtaxa/pkg/constants"
	"github.com/agentstation/wdtaxa/pkg/errors"
)

const (
	// Property is the Wikidata property for Index Fungorum record numbers.
	Property = "P1391"
	// StatedIn is the Wikidata item for Index Fungorum.
	StatedIn = "Q1860469"
)

// Source queries the Index Fungorum web service.
type Source struct {
	client  *transport.Client
	baseURL string
}

// New creates an Index Fungorum source. An empty baseURL selects the
// public service.
func New(client *transport.Client, baseURL string) *Source {
	if baseURL == "" {
		baseURL = constants.IndexFungorumURL
	}
	return &Source{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// NewAuthority wraps the source with its Wikidata write-back settings.
// Index Fungorum records carry no parent taxon, so hits are disambiguated
// on rank.
func NewAuthority(s *Source) *authority.Authority {
	return &authority.Authority{
		Source:   s,
		Label:    "Index Fungorum",
		Property: Property,
		StatedIn: StatedIn,
	}
}

// ID implements authority.Source.
func (s *Source) ID() authority.SourceID {
	return authority.IndexFungorum
}

type dataSet struct {
	XMLName xml.Name `xml:"NewDataSet"`
	Rows    []row    `xml:"IndexFungorum"`
}

// Element names are the service's column names with spaces escaped as _x0020_.
type row struct {
	Name    string `xml:"NAME_x0020_OF_x0020_FUNGUS"`
	Authors string `xml:"AUTHORS"`
	Rank    string `xml:"INFRASPECIFIC_x0020_RANK"`
	Year    string `xml:"YEAR_x0020_OF_x0020_PUBLICATION"`
	Record  string `xml:"RECORD_x0020_NUMBER"`
	Current string `xml:"CURRENT_x0020_NAME_x0020_RECORD_x0020_NUMBER"`
}

// Lookup implements authority.Source using NameSearch.
func (s *Source) Lookup(ctx context.Context, q authority.Query) ([]authority.Hit, error) {
	params := url.Values{}
	params.Set("SearchText", q.Name)
	params.Set("AnywhereInText", "false")
	params.Set("MaxNumber", strconv.Itoa(constants.MaxAuthorityHits))
	return s.fetch(ctx, s.baseURL+"/NameSearch?"+params.Encode())
}

// ByKey fetches the single record with the given record number.
func (s *Source) ByKey(ctx context.Context, key string) (*authority.Hit, error) {
	params := url.Values{}
	params.Set("NameKey", key)

	hits, err := s.fetch(ctx, s.baseURL+"/NameByKey?"+params.Encode())
	if err != nil {
		return nil, err
	}
	hit, ok := authority.ReduceToUnique(hits, func(h authority.Hit) bool {
		return h.ID == key
	})
	if !ok {
		return nil, errors.NewNotFoundError("index fungorum record", key)
	}
	return &hit, nil
}

func (s *Source) fetch(ctx context.Context, u string) ([]authority.Hit, error) {
	resp, err := s.client.Get(ctx, u, "text/xml")
	if err != nil {
		return nil, err
	}

	var ds dataSet
	if err := transport.DecodeXML(resp, s.ID().String(), &ds); err != nil {
		return nil, err
	}

	hits := make([]authority.Hit, 0, len(ds.Rows))
	for _, r := range ds.Rows {
		hits = append(hits, authority.Hit{
			Source: authority.IndexFungorum,
			ID:     strings.TrimSpace(r.Record),
			Name:   strings.TrimSpace(r.Name),
			Fields: map[string]string{
				authority.FieldAuthors: strings.TrimSpace(r.Authors),
				authority.FieldRank:    authority.NormalizeRank(r.Rank),
				"year":                 strings.TrimSpace(r.Year),
				"current":              strings.TrimSpace(r.Current),
			},
		})
	}
	return hits, nil
}
