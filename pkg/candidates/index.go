// Package candidates groups flat records under a natural key and gates
// which groups may be sent to an external authority. Only keys held by
// exactly one record are eligible; a shared key is excluded for good.
package candidates

import (
	"github.com/agentstation/wdtaxa/pkg/errors"
	"github.com/agentstation/wdtaxa/pkg/sparql"
)

// Index holds records grouped by key, in first-seen order.
type Index struct {
	field   string
	keys    []string
	groups  map[string][]sparql.Record
	missing int
}

// Group collects records under the value of keyField. Records without
// the key field are counted but not grouped.
func Group(records []sparql.Record, keyField string) *Index {
	idx := &Index{
		field:  keyField,
		groups: make(map[string][]sparql.Record),
	}
	for _, rec := range records {
		key, ok := rec[keyField]
		if !ok {
			idx.missing++
			continue
		}
		if _, seen := idx.groups[key]; !seen {
			idx.keys = append(idx.keys, key)
		}
		idx.groups[key] = append(idx.groups[key], rec)
	}
	return idx
}

// Field returns the key field the index was built on.
func (idx *Index) Field() string {
	return idx.field
}

// Keys returns every key in first-seen order.
func (idx *Index) Keys() []string {
	return append([]string(nil), idx.keys...)
}

// Len returns the number of distinct keys.
func (idx *Index) Len() int {
	return len(idx.keys)
}

// Missing returns how many records lacked the key field.
func (idx *Index) Missing() int {
	return idx.missing
}

// Get returns the records grouped under key, in first-seen order.
func (idx *Index) Get(key string) []sparql.Record {
	return idx.groups[key]
}

// IsUnique reports whether exactly one record holds key.
func (idx *Index) IsUnique(key string) bool {
	return len(idx.groups[key]) == 1
}

// Check returns nil for a unique key and an error matching
// errors.ErrAmbiguousCandidate (or errors.ErrNotFound) otherwise.
func (idx *Index) Check(key string) error {
	switch n := len(idx.groups[key]); n {
	case 1:
		return nil
	case 0:
		return errors.NewNotFoundError("candidate", key)
	default:
		return &errors.AmbiguousError{Key: key, Count: n}
	}
}

// Unique returns the single record of every unique key, in key order.
func (idx *Index) Unique() []sparql.Record {
	var out []sparql.Record
	for _, key := range idx.keys {
		if idx.IsUnique(key) {
			out = append(out, idx.groups[key][0])
		}
	}
	return out
}

// Ambiguous returns the keys shared by more than one record, in key order.
func (idx *Index) Ambiguous() []string {
	var out []string
	for _, key := range idx.keys {
		if len(idx.groups[key]) > 1 {
			out = append(out, key)
		}
	}
	return out
}

// Lookup returns the record for a unique key.
func (idx *Index) Lookup(key string) (sparql.Record, bool) {
	if !idx.IsUnique(key) {
		return nil, false
	}
	return idx.groups[key][0], true
}
