// Package citation parses botanical and mycological author citations
// such as "(Fr.) P. Kumm." into the author abbreviations they credit.
//
// Anything outside the grammar is rejected rather than guessed at.
// Zoological citations are not supported.
package citation

import (
	"strings"

	"github.com/agentstation/wdtaxa/pkg/errors"
)

const (
	exSeparator = " ex "
	inSeparator = " in "
)

// Parsed is the structured form of one citation.
type Parsed struct {
	// Auth are the authors who validly published the name.
	Auth []string `json:"auth" yaml:"auth"`
	// ExAuth are the authors the name is ascribed to with "ex"; nil when
	// the citation has no ex clause.
	ExAuth []string `json:"ex_auth,omitempty" yaml:"ex_auth,omitempty"`
}

// HasEx reports whether the citation had an ex clause.
func (p *Parsed) HasEx() bool {
	return p.ExAuth != nil
}

// Parse reads a citation. Rejected citations return nil and an error
// matching errors.ErrUnparseableCitation.
//
// Rules, in order: more than one ")" is rejected; with one ")" the
// parenthesized basionym authors are dropped; ":", ";" and "?" are
// rejected; a single " in " cuts off the publication; more than one
// " ex " is rejected; a single " ex " splits ex-authors from authors.
// Authors are separated by "," or "&", and ". " inside a name is
// compressed to "." to match standard abbreviations.
func Parse(citation string) (*Parsed, error) {
	s := citation

	switch strings.Count(s, ")") {
	case 0:
	case 1:
		s = s[strings.Index(s, ")")+1:]
	default:
		return nil, errors.NewCitationError(citation, "more than one basionym parenthesis")
	}

	if strings.ContainsAny(s, ":;?") {
		return nil, errors.NewCitationError(citation, "unsupported punctuation")
	}

	switch strings.Count(s, inSeparator) {
	case 0:
	case 1:
		s = s[:strings.Index(s, inSeparator)]
	default:
		return nil, errors.NewCitationError(citation, `more than one " in "`)
	}

	var exPart string
	hasEx := false
	switch strings.Count(s, exSeparator) {
	case 0:
	case 1:
		exPart, s, _ = strings.Cut(s, exSeparator)
		hasEx = true
	default:
		return nil, errors.NewCitationError(citation, `more than one " ex "`)
	}

	auth, ok := split(s)
	if !ok {
		return nil, errors.NewCitationError(citation, "empty author")
	}
	p := &Parsed{Auth: auth}

	if hasEx {
		exAuth, ok := split(exPart)
		if !ok {
			return nil, errors.NewCitationError(citation, "empty ex author")
		}
		p.ExAuth = exAuth
	}
	return p, nil
}

// split breaks an author list on "," and "&". It fails on an empty name.
func split(s string) ([]string, bool) {
	tokens := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '&' })
	if len(tokens) != strings.Count(s, ",")+strings.Count(s, "&")+1 {
		return nil, false
	}

	names := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		name := strings.TrimSpace(strings.ReplaceAll(tok, ". ", "."))
		if name == "" {
			return nil, false
		}
		names = append(names, name)
	}
	return names, true
}
