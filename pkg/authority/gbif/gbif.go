// Package gbif looks names up with the GBIF species matching service.
//
// The matcher returns its preferred usage plus, in verbose mode, the
// alternatives it considered. All of them are offered as hits; the
// preferred usage carries no special weight.
package gbif

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
	// Property is the Wikidata property for GBIF taxon IDs.
	Property = "P846"
	// StatedIn is the Wikidata item for GBIF.
	StatedIn = "Q1531570"
)

// Source queries /species/match.
type Source struct {
	client  *transport.Client
	baseURL string
}

// New creates a GBIF source. An empty baseURL selects the public API.
func New(client *transport.Client, baseURL string) *Source {
	if baseURL == "" {
		baseURL = constants.GBIFURL
	}
	return &Source{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// NewAuthority wraps the source with its Wikidata write-back settings.
func NewAuthority(s *Source) *authority.Authority {
	return &authority.Authority{
		Source:       s,
		Label:        "GBIF",
		Property:     Property,
		StatedIn:     StatedIn,
		ParentFields: []string{"genus", "family", "order", "class", "phylum", "kingdom"},
	}
}

// ID implements authority.Source.
func (s *Source) ID() authority.SourceID {
	return authority.GBIF
}

type usage struct {
	UsageKey       int64   `json:"usageKey"`
	ScientificName string  `json:"scientificName"`
	CanonicalName  string  `json:"canonicalName"`
	Rank           string  `json:"rank"`
	Status         string  `json:"status"`
	MatchType      string  `json:"matchType"`
	Kingdom        string  `json:"kingdom"`
	Phylum         string  `json:"phylum"`
	Class          string  `json:"class"`
	Order          string  `json:"order"`
	Family         string  `json:"family"`
	Genus          string  `json:"genus"`
	Alternatives   []usage `json:"alternatives"`
}

// Lookup implements authority.Source.
func (s *Source) Lookup(ctx context.Context, q authority.Query) ([]authority.Hit, error) {
	params := url.Values{}
	params.Set("verbose", "true")
	params.Set("name", q.Name)
	if q.Rank != "" {
		params.Set("rank", strings.ToUpper(q.Rank))
	}

	resp, err := s.client.Get(ctx, s.baseURL+"/species/match?"+params.Encode(), "application/json")
	if err != nil {
		return nil, err
	}

	var best usage
	if err := transport.DecodeJSON(resp, s.ID().String(), &best); err != nil {
		return nil, err
	}

	var hits []authority.Hit
	for _, u := range append([]usage{best}, best.Alternatives...) {
		if u.UsageKey == 0 || u.MatchType == "NONE" {
			continue
		}
		hits = append(hits, u.hit())
	}
	return hits, nil
}

func (u usage) hit() authority.Hit {
	authors := strings.TrimSpace(strings.TrimPrefix(u.ScientificName, u.CanonicalName))
	return authority.Hit{
		Source: authority.GBIF,
		ID:     strconv.FormatInt(u.UsageKey, 10),
		Name:   u.CanonicalName,
		Fields: map[string]string{
			authority.FieldAuthors: authors,
			authority.FieldRank:    authority.NormalizeRank(u.Rank),
			"status":               u.Status,
			"kingdom":              u.Kingdom,
			"phylum":               u.Phylum,
			"class":                u.Class,
			"order":                u.Order,
			"family":               u.Family,
			"genus":                u.Genus,
		},
	}
}
