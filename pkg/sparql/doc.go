// Package sparql reads SPARQL XML result documents into flat records.
//
// A query shape is described by a FieldSpec that partitions the bindings
// a caller cares about into reference fields (URIs, reduced to their last
// path segment, e.g. a Wikidata QID) and literal fields (text kept
// verbatim). Each result row becomes one Record. Rows are independent: a
// row that lacks the structure its FieldSpec promises is reported and
// skipped while the remaining rows are still returned.
//
// Query shapes can also be declared as Go structs:
//
//	type taxonRow struct {
//		Item  string `sparql:"item,uri,required"`
//		Label string `sparql:"itemLabel,literal"`
//	}
//
//	rows, report, err := sparql.ParseInto[taxonRow](ctx, resp)
package sparql
