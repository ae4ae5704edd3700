package sparql

import (
	"slices"

	"github.com/agentstation/wdtaxa/pkg/errors"
)

// Record is one flattened result row: field name to resolved value.
// Fields absent from the source row are absent from the map.
type Record map[string]string

// Get returns the value of a field and whether it was present.
func (r Record) Get(field string) (string, bool) {
	v, ok := r[field]
	return v, ok
}

// FieldSpec partitions the fields of a query shape.
type FieldSpec struct {
	// URIFields resolve to the last path segment of their URI.
	URIFields []string
	// LiteralFields keep the literal text verbatim.
	LiteralFields []string
	// Required fields must be bound in every row; a row without one is
	// rejected with a row error.
	Required []string
}

// Validate checks that no field is declared in both partitions and that
// every required field is declared.
func (s FieldSpec) Validate() error {
	for _, f := range s.URIFields {
		if f == "" {
			return errors.NewValidationError("uri_fields", f, "empty field name")
		}
		if slices.Contains(s.LiteralFields, f) {
			return errors.NewValidationError("fields", f, "declared as both uri and literal")
		}
	}
	for _, f := range s.LiteralFields {
		if f == "" {
			return errors.NewValidationError("literal_fields", f, "empty field name")
		}
	}
	for _, f := range s.Required {
		if !s.declares(f) {
			return errors.NewValidationError("required", f, "required field is not declared")
		}
	}
	return nil
}

func (s FieldSpec) declares(field string) bool {
	return slices.Contains(s.URIFields, field) || slices.Contains(s.LiteralFields, field)
}

func (s FieldSpec) kind(field string) (uri, literal bool) {
	return slices.Contains(s.URIFields, field), slices.Contains(s.LiteralFields, field)
}

// Response is what the query boundary hands back.
type Response struct {
	Source     string // endpoint name used in errors, e.g. "wdqs"
	OK         bool
	StatusCode int
	Body       []byte
}

// Report summarizes one Parse call.
type Report struct {
	Rows    int     // result nodes in the document
	Records int     // records produced
	Errors  []error // one *errors.RowError per skipped row
}

// Skipped returns the number of rows that failed to parse.
func (r *Report) Skipped() int {
	return len(r.Errors)
}
