package wdqs

import (
	"context"
	"net/url"

	"github.com/agentstation/wdtaxa/internal/transport"
	"github.com/agentstation/wdtaxa/pkg/constants"
	"github.com/agentstation/wdtaxa/pkg/sparql"
)

// SourceName identifies the query service in errors and logs.
const SourceName = "wdqs"

// ResultsMediaType is the SPARQL XML results media type.
const ResultsMediaType = "application/sparql-results+xml"

// Response is the status and body returned by the query service.
type Response = sparql.Response

// Querier runs SPARQL text against a query service.
type Querier interface {
	Query(ctx context.Context, query string) (Response, error)
}

// Client sends queries to a WDQS endpoint over HTTP GET.
type Client struct {
	transport *transport.Client
	endpoint  string
}

var _ Querier = (*Client)(nil)

// NewClient creates a query client. An empty endpoint selects the public
// Wikidata Query Service.
func NewClient(t *transport.Client, endpoint string) *Client {
	if endpoint == "" {
		endpoint = constants.WDQSURL
	}
	return &Client{transport: t, endpoint: endpoint}
}

// Endpoint returns the query service URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Query implements Querier. A non-ok status is returned in the response,
// not as an error.
func (c *Client) Query(ctx context.Context, query string) (Response, error) {
	resp, err := c.transport.Get(ctx, c.endpoint+"?"+url.Values{"query": {query}}.Encode(), ResultsMediaType)
	if err != nil {
		return Response{Source: SourceName}, err
	}
	return Response{
		Source:     SourceName,
		OK:         resp.OK,
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}, nil
}
