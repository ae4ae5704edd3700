// Package authority matches candidate taxon names against external
// taxonomic authorities (name registers, species matchers, fungal name
// services) and decides which single hit, if any, may be trusted.
//
// Authorities rank their own results, and their best match is known to
// disagree with the higher taxon the caller expects. Hits are therefore
// re-filtered locally on exact name and disambiguator equality, and a
// match is accepted only when exactly one hit survives.
package authority

import (
	"context"
	"slices"
	"strings"

	"github.com/agentstation/wdtaxa/pkg/errors"
)

// SourceID identifies an authority.
type SourceID string

// Supported authorities.
const (
	IPNI          SourceID = "ipni"
	GBIF          SourceID = "gbif"
	IndexFungorum SourceID = "indexfungorum"
)

// String returns the source ID as a string.
func (id SourceID) String() string {
	return string(id)
}

// Well-known hit field names.
const (
	FieldName    = "name"
	FieldID      = "id"
	FieldRank    = "rank"
	FieldAuthors = "authors"
)

// Hit is one record returned by an authority lookup.
type Hit struct {
	Source    SourceID          `json:"source" yaml:"source"`
	ID        string            `json:"id" yaml:"id"`
	Name      string            `json:"name" yaml:"name"`
	Fields    map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Retrieved Timestamp         `json:"retrieved,omitzero" yaml:"retrieved,omitempty"`
}

// Field returns a hit attribute by name. "name" and "id" address the
// dedicated struct fields.
func (h Hit) Field(name string) string {
	switch name {
	case FieldName:
		return h.Name
	case FieldID:
		return h.ID
	default:
		return h.Fields[name]
	}
}

// Query is a name lookup, optionally qualified by rank.
type Query struct {
	Name string
	Rank string
}

// Source is an authority lookup boundary. A non-ok response is reported
// as an error matching errors.ErrSourceUnavailable.
type Source interface {
	ID() SourceID
	Lookup(ctx context.Context, q Query) ([]Hit, error)
}

// Authority describes how an authority's identifiers are written back.
type Authority struct {
	Source Source
	// Label is the human-readable name used in edit comments.
	Label string
	// Property is the Wikidata property holding the authority's identifier.
	Property string
	// StatedIn is the Wikidata item cited as the reference source.
	StatedIn string
	// ParentFields are the hit fields naming an enclosing taxon. When
	// empty, hits are disambiguated on rank instead.
	ParentFields []string
}

// ID returns the authority's source ID.
func (a *Authority) ID() SourceID {
	return a.Source.ID()
}

// Disambiguator picks the hit field and expected value used to confirm a
// name-only match: the parent taxon name when the authority records a
// field for the parent's rank, otherwise the candidate's own rank.
func (a *Authority) Disambiguator(rank, parentRank, parentName string) (field, value string, ok bool) {
	if len(a.ParentFields) == 0 {
		if rank == "" {
			return "", "", false
		}
		return FieldRank, rank, true
	}
	if parentName == "" || !slices.Contains(a.ParentFields, parentRank) {
		return "", "", false
	}
	return parentRank, parentName, true
}

// Registry holds the configured authorities in registration order.
type Registry struct {
	order []SourceID
	byID  map[SourceID]*Authority
}

// NewRegistry creates a registry of authorities.
func NewRegistry(authorities ...*Authority) *Registry {
	r := &Registry{byID: make(map[SourceID]*Authority)}
	for _, a := range authorities {
		r.Register(a)
	}
	return r
}

// Register adds or replaces an authority.
func (r *Registry) Register(a *Authority) {
	id := a.ID()
	if _, exists := r.byID[id]; !exists {
		r.order = append(r.order, id)
	}
	r.byID[id] = a
}

// Get returns the authority with the given ID.
func (r *Registry) Get(id string) (*Authority, error) {
	a, ok := r.byID[SourceID(strings.ToLower(id))]
	if !ok {
		return nil, errors.NewNotFoundError("authority", id)
	}
	return a, nil
}

// List returns all authorities in registration order.
func (r *Registry) List() []*Authority {
	out := make([]*Authority, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IDs returns the registered source IDs in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, id.String())
	}
	return out
}

// NormalizeRank maps the rank spellings used by the authorities
// ("spec.", "sp.", "SPECIES", "gen.", "fam.", "cl.", "phyl.", "regn.")
// onto the rank names of wdqs.Ranks. Unknown spellings are lower-cased and
// returned as-is.
func NormalizeRank(rank string) string {
	r := strings.ToLower(strings.TrimSpace(rank))
	switch r {
	case "spec.", "sp.", "species":
		return "species"
	case "gen.", "genus":
		return "genus"
	case "fam.", "familia", "family":
		return "family"
	case "ord.", "order", "ordo":
		return "order"
	case "cl.", "class.", "class", "classis":
		return "class"
	case "phyl.", "div.", "phylum", "divisio", "division":
		return "phylum"
	case "regn.", "kingdom", "regnum":
		return "kingdom"
	default:
		return r
	}
}
