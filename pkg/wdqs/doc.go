// Package wdqs is the query boundary to the Wikidata Query Service.
//
// Client sends SPARQL text and returns the raw status and body, which
// pkg/sparql turns into records. The query texts live in queries/*.rq
// and are rendered from validated request values only.
package wdqs
