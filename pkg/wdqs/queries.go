package wdqs

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"golang.org/x/text/language"

	"github.com/agentstation/wdtaxa/pkg/errors"
)

//go:embed queries/*.rq
var queryFS embed.FS

var queries = template.Must(template.New("").
	Funcs(template.FuncMap{"quote": QuoteLiteral}).
	ParseFS(queryFS, "queries/*.rq"))

var (
	itemPattern     = regexp.MustCompile(`^Q[0-9]+$`)
	propertyPattern = regexp.MustCompile(`^P[0-9]+$`)
)

// Ranks maps supported rank names to their Wikidata items.
var Ranks = map[string]string{
	"species": "Q7432",
	"genus":   "Q34740",
	"family":  "Q35409",
	"order":   "Q36602",
	"class":   "Q37517",
	"phylum":  "Q38348",
	"kingdom": "Q36732",
}

// RankName returns the rank name for a rank item, or "" if unknown.
func RankName(qid string) string {
	for name, q := range Ranks {
		if q == qid {
			return name
		}
	}
	return ""
}

// RankQID returns the Wikidata item for a rank name.
func RankQID(rank string) (string, error) {
	qid, ok := Ranks[strings.ToLower(rank)]
	if !ok {
		return "", errors.NewValidationError("rank", rank, "unsupported rank")
	}
	return qid, nil
}

// ValidateItem checks that id is a Wikidata item ID such as Q42.
func ValidateItem(field, id string) error {
	if !itemPattern.MatchString(id) {
		return errors.NewValidationError(field, id, "must be a Wikidata item ID like Q42")
	}
	return nil
}

// ValidateProperty checks that id is a Wikidata property ID such as P961.
func ValidateProperty(field, id string) error {
	if !propertyPattern.MatchString(id) {
		return errors.NewValidationError(field, id, "must be a Wikidata property ID like P31")
	}
	return nil
}

// ValidateLang checks that code is a well-formed BCP 47 language tag.
func ValidateLang(code string) error {
	if code == "" || strings.ContainsAny(code, `"\ `) {
		return errors.NewValidationError("lang", code, "invalid language code")
	}
	if _, err := language.Parse(code); err != nil {
		return errors.NewValidationError("lang", code, err.Error())
	}
	return nil
}

// QuoteLiteral renders s as a double-quoted SPARQL string literal. Control
// characters use SPARQL escapes and invalid UTF-8 becomes U+FFFD.
func QuoteLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range strings.ToValidUTF8(s, "\uFFFD") {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := queries.ExecuteTemplate(&b, name, data); err != nil {
		return "", errors.NewConfigError("wdqs", "rendering "+name, err)
	}
	return b.String(), nil
}

type taxaParams struct {
	HigherTaxon string
	RankQID     string
	Lang        string
	Property    string
}

func newTaxaParams(higherTaxon, rank string) (taxaParams, error) {
	if err := ValidateItem("higher_taxon", higherTaxon); err != nil {
		return taxaParams{}, err
	}
	rankQID, err := RankQID(rank)
	if err != nil {
		return taxaParams{}, err
	}
	return taxaParams{HigherTaxon: higherTaxon, RankQID: rankQID}, nil
}

// TaxaMissingDescriptions selects taxa of a rank under a higher taxon that
// have no description in lang.
func TaxaMissingDescriptions(higherTaxon, rank, lang string) (string, error) {
	p, err := newTaxaParams(higherTaxon, rank)
	if err != nil {
		return "", err
	}
	if err := ValidateLang(lang); err != nil {
		return "", err
	}
	p.Lang = lang
	return render("taxa_missing_descriptions.rq", p)
}

// ArticlesMissingDescriptions selects scholarly articles published in a
// periodical that have no description in lang.
func ArticlesMissingDescriptions(periodical, lang string) (string, error) {
	if err := ValidateItem("periodical", periodical); err != nil {
		return "", err
	}
	if err := ValidateLang(lang); err != nil {
		return "", err
	}
	return render("articles_missing_descriptions.rq", struct{ Periodical, Lang string }{periodical, lang})
}

// TaxaMissingIdentifier selects taxa of a rank under a higher taxon that
// lack a statement for property, with their parent's name and rank.
func TaxaMissingIdentifier(higherTaxon, rank, property string) (string, error) {
	p, err := newTaxaParams(higherTaxon, rank)
	if err != nil {
		return "", err
	}
	if err := ValidateProperty("property", property); err != nil {
		return "", err
	}
	p.Property = property
	return render("taxa_missing_identifier.rq", p)
}

// TaxaMissingAuthors selects taxa of a rank under a higher taxon that have
// an Index Fungorum ID but no taxon author qualifier on their name.
func TaxaMissingAuthors(higherTaxon, rank string) (string, error) {
	p, err := newTaxaParams(higherTaxon, rank)
	if err != nil {
		return "", err
	}
	return render("taxa_missing_authors.rq", p)
}

// AuthorAbbreviations selects the items carrying any of the given
// botanist author abbreviations.
func AuthorAbbreviations(abbrevs []string) (string, error) {
	if len(abbrevs) == 0 {
		return "", errors.NewValidationError("abbreviations", abbrevs, "at least one abbreviation is required")
	}
	return render("author_abbreviations.rq", struct{ Abbreviations []string }{abbrevs})
}
