// Package constants provides shared constants used throughout the wdtaxa codebase.
// This includes timeouts, limits, file permissions, endpoints, and the Wikidata
// identifiers that the query templates and edit rows refer to.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to authorities
	DefaultHTTPTimeout = 30 * time.Second

	// QueryHTTPTimeout is the timeout for WDQS requests, which may run up to
	// the service's own one-minute limit
	QueryHTTPTimeout = 70 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 2 * time.Hour

	// DefaultBatchCooldown is the fixed pause between batched lookups that
	// share a rate-limited endpoint
	DefaultBatchCooldown = 2 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// AuthorBatchSize is the number of abbreviations sent in one VALUES clause
	AuthorBatchSize = 50

	// MaxCitationAuthors is the number of taxon-author columns in a citation row
	MaxCitationAuthors = 4

	// MaxCitationExAuthors is the number of ex-author columns in a citation row
	MaxCitationExAuthors = 2

	// MaxAuthorityHits is the page size requested from authority search endpoints
	MaxAuthorityHits = 50
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached responses
	CacheTTL = 15 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 5 * time.Minute
)

// Endpoint constants
const (
	// WDQSURL is the Wikidata Query Service SPARQL endpoint
	WDQSURL = "https://query.wikidata.org/sparql"

	// IPNIURL is the IPNI search API
	IPNIURL = "https://www.ipni.org/api/1"

	// GBIFURL is the GBIF species API
	GBIFURL = "https://api.gbif.org/v1"

	// IndexFungorumURL is the Index Fungorum web service
	IndexFungorumURL = "http://www.indexfungorum.org/ixfwebservice/fungus.asmx"

	// DefaultUserAgent identifies the tool to the Wikimedia and authority services
	DefaultUserAgent = "wdtaxa/dev (https://github.com/agentstation/wdtaxa)"
)

// Wikidata identifiers
const (
	// ItemTaxon is "taxon" (Q16521)
	ItemTaxon = "Q16521"

	// ItemScholarlyArticle is "scholarly article" (Q13442814)
	ItemScholarlyArticle = "Q13442814"

	// PropInstanceOf is "instance of"
	PropInstanceOf = "P31"

	// PropTaxonRank is "taxon rank"
	PropTaxonRank = "P105"

	// PropParentTaxon is "parent taxon"
	PropParentTaxon = "P171"

	// PropTaxonName is "taxon name"
	PropTaxonName = "P225"

	// PropTaxonAuthor is "taxon author", used as a qualifier on P225
	PropTaxonAuthor = "P405"

	// PropExTaxonAuthor is "ex taxon author", used as a qualifier on P225
	PropExTaxonAuthor = "P697"

	// PropBotanistAbbreviation is "botanist author abbreviation"
	PropBotanistAbbreviation = "P428"

	// PropPublishedIn is "published in"
	PropPublishedIn = "P1433"

	// PropPublicationDate is "publication date"
	PropPublicationDate = "P577"

	// PropStatedIn is "stated in", used as a reference
	PropStatedIn = "P248"

	// PropRetrieved is "retrieved", used as a reference
	PropRetrieved = "P813"
)

// Format constants
const (
	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"

	// DayPrecision is the Wikibase time precision marker for a calendar day
	DayPrecision = 11
)
