package wdqs

import "strings"

// Result row shapes of the queries in this package.

// TaxonDescriptionRow is a row of TaxaMissingDescriptions.
type TaxonDescriptionRow struct {
	Item  string `sparql:"item,uri,required"`
	Label string `sparql:"itemLabel,literal"`
}

// ArticleRow is a row of ArticlesMissingDescriptions.
type ArticleRow struct {
	Item string `sparql:"item,uri,required"`
	Date string `sparql:"date,literal,required"`
}

// Year returns the publication year, the date text before its first dash.
func (r ArticleRow) Year() string {
	year, _, _ := strings.Cut(r.Date, "-")
	return year
}

// TaxonIdentifierRow is a row of TaxaMissingIdentifier.
type TaxonIdentifierRow struct {
	Item       string `sparql:"item,uri,required"`
	Name       string `sparql:"name,literal,required"`
	ParentName string `sparql:"parentName,literal"`
	ParentRank string `sparql:"parentRank,uri"`
}

// TaxonAuthorRow is a row of TaxaMissingAuthors.
type TaxonAuthorRow struct {
	Item string `sparql:"item,uri,required"`
	Name string `sparql:"name,literal,required"`
	IFID string `sparql:"ifid,literal,required"`
}

// AbbreviationRow is a row of AuthorAbbreviations.
type AbbreviationRow struct {
	Author string `sparql:"author,uri,required"`
	Abbrev string `sparql:"abbrev,literal,required"`
}
