// Package ipni looks plant names up in the International Plant Names Index.
package ipni

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/wdtaxa/internal/transport"
	"github.com/agentstation/wdtaxa/pkg/authority"
	"github.com/agentstation/wdtaxa/pkg/constants"
)

const (
	// Property is the Wikidata property for IPNI plant name IDs.
	Property = "P961"
	// StatedIn is the Wikidata item for IPNI.
	StatedIn = "Q922063"
)

// Source queries the IPNI search API.
type Source struct {
	client  *transport.Client
	baseURL string
}

// New creates an IPNI source. An empty baseURL selects the public API.
func New(client *transport.Client, baseURL string) *Source {
	if baseURL == "" {
		baseURL = constants.IPNIURL
	}
	return &Source{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// NewAuthority wraps the source with its Wikidata write-back settings.
func NewAuthority(s *Source) *authority.Authority {
	return &authority.Authority{
		Source:       s,
		Label:        "IPNI",
		Property:     Property,
		StatedIn:     StatedIn,
		ParentFields: []string{"genus", "family"},
	}
}

// ID implements authority.Source.
func (s *Source) ID() authority.SourceID {
	return authority.IPNI
}

type searchResponse struct {
	TotalResults int      `json:"totalResults"`
	Results      []record `json:"results"`
}

type record struct {
	ID      string `json:"id"`
	FQID    string `json:"fqId"`
	Name    string `json:"name"`
	Authors string `json:"authors"`
	Rank    string `json:"rank"`
	Family  string `json:"family"`
	Genus   string `json:"genus"`
}

// Lookup implements authority.Source. Results are returned in API order;
// the caller applies its own filtering.
func (s *Source) Lookup(ctx context.Context, q authority.Query) ([]authority.Hit, error) {
	params := url.Values{}
	params.Set("q", q.Name)
	params.Set("perPage", strconv.Itoa(constants.MaxAuthorityHits))

	resp, err := s.client.Get(ctx, s.baseURL+"/search?"+params.Encode(), "application/json")
	if err != nil {
		return nil, err
	}

	var out searchResponse
	if err := transport.DecodeJSON(resp, s.ID().String(), &out); err != nil {
		return nil, err
	}

	hits := make([]authority.Hit, 0, len(out.Results))
	for _, r := range out.Results {
		hits = append(hits, r.hit())
	}
	return hits, nil
}

func (r record) hit() authority.Hit {
	id := r.ID
	if id == "" {
		id = r.FQID
	}
	// "urn:lsid:ipni.org:names:30000959-2" -> "30000959-2"
	if i := strings.LastIndexByte(id, ':'); i >= 0 {
		id = id[i+1:]
	}
	return authority.Hit{
		Source: authority.IPNI,
		ID:     id,
		Name:   r.Name,
		Fields: map[string]string{
			authority.FieldAuthors: r.Authors,
			authority.FieldRank:    authority.NormalizeRank(r.Rank),
			"family":               r.Family,
			"genus":                r.Genus,
		},
	}
}
