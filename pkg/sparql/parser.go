package sparql

import (
	"bytes"
	"context"
	"encoding/xml"
	"strings"

	"github.com/agentstation/wdtaxa/pkg/errors"
	"github.com/agentstation/wdtaxa/pkg/logging"
)

// document mirrors the W3C SPARQL Query Results XML Format. Element names
// are matched by local name, so the sparql-results namespace needs no
// special handling.
type document struct {
	XMLName xml.Name `xml:"sparql"`
	Results *struct {
		Results []result `xml:"result"`
	} `xml:"results"`
}

type result struct {
	Bindings []binding `xml:"binding"`
}

type binding struct {
	Name    string   `xml:"name,attr"`
	URI     *string  `xml:"uri"`
	Literal *literal `xml:"literal"`
	BNode   *string  `xml:"bnode"`
}

type literal struct {
	Lang     string `xml:"lang,attr"`
	Datatype string `xml:"datatype,attr"`
	Value    string `xml:",chardata"`
}

// Parse converts a query response into records, one per result node, in
// document order. A non-ok response yields an error matching
// errors.ErrSourceUnavailable and nothing is parsed. A document that is
// not a SPARQL results document yields a *errors.ParseError. Malformed
// rows are skipped, logged, and listed in the report.
func Parse(ctx context.Context, resp Response, spec FieldSpec) ([]Record, *Report, error) {
	if !resp.OK {
		source := resp.Source
		if source == "" {
			source = "query service"
		}
		return nil, nil, errors.NewSourceError(source, resp.StatusCode)
	}
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}

	doc, err := decode(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	log := logging.FromContext(ctx)
	report := &Report{Rows: len(doc.Results.Results)}
	records := make([]Record, 0, report.Rows)

	for i, res := range doc.Results.Results {
		rec, rowErr := spec.record(i, res)
		if rowErr != nil {
			log.Warn().Err(rowErr).Int("row", i).Msg("Skipping malformed result row")
			report.Errors = append(report.Errors, rowErr)
			continue
		}
		records = append(records, rec)
	}
	report.Records = len(records)

	return records, report, nil
}

func decode(body []byte) (*document, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.NewParseError("xml", "", "empty response body", nil)
	}

	var doc document
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, errors.WrapParse("xml", "", err)
	}
	if doc.Results == nil {
		return nil, errors.NewParseError("xml", "", "document has no results element", nil)
	}
	return &doc, nil
}

// record builds the Record for one result node.
func (s FieldSpec) record(row int, res result) (Record, error) {
	rec := make(Record)
	for _, b := range res.Bindings {
		isURI, isLiteral := s.kind(b.Name)
		switch {
		case isURI:
			if b.URI == nil {
				return nil, errors.NewRowError(row, b.Name, "binding has no uri value")
			}
			rec[b.Name] = lastSegment(*b.URI)
		case isLiteral:
			if b.Literal == nil {
				return nil, errors.NewRowError(row, b.Name, "binding has no literal value")
			}
			rec[b.Name] = b.Literal.Value
		}
	}
	for _, f := range s.Required {
		if _, ok := rec[f]; !ok {
			return nil, errors.NewRowError(row, f, "required binding is missing")
		}
	}
	return rec, nil
}

// lastSegment returns the part of a URI after its final slash.
func lastSegment(uri string) string {
	return uri[strings.LastIndex(uri, "/")+1:]
}
