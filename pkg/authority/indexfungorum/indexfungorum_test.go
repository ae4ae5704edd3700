package indexfungorum

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wdtaxa/internal/transport"
	"github.com/agentstation/wdtaxa/pkg/authority"
	"github.com/agentstation/wdtaxa/pkg/errors"
)

const searchBody = `<?xml version="1.0" encoding="utf-8"?>
<NewDataSet>
  <IndexFungorum>
    <NAME_x0020_OF_x0020_FUNGUS>Amanita muscaria</NAME_x0020_OF_x0020_FUNGUS>
    <AUTHORS>(L.) Lam.</AUTHORS>
    <INFRASPECIFIC_x0020_RANK>sp.</INFRASPECIFIC_x0020_RANK>
    <YEAR_x0020_OF_x0020_PUBLICATION>1783</YEAR_x0020_OF_x0020_PUBLICATION>
    <RECORD_x0020_NUMBER>140193</RECORD_x0020_NUMBER>
  </IndexFungorum>
  <IndexFungorum>
    <NAME_x0020_OF_x0020_FUNGUS>Amanita muscaria</NAME_x0020_OF_x0020_FUNGUS>
    <AUTHORS>(L.) Hook.</AUTHORS>
    <INFRASPECIFIC_x0020_RANK>var.</INFRASPECIFIC_x0020_RANK>
    <RECORD_x0020_NUMBER>140194</RECORD_x0020_NUMBER>
  </IndexFungorum>
</NewDataSet>`

const byKeyBody = `<?xml version="1.0" encoding="utf-8"?>
<NewDataSet>
  <IndexFungorum>
    <NAME_x0020_OF_x0020_FUNGUS>Tuber lebelii</NAME_x0020_OF_x0020_FUNGUS>
    <AUTHORS>(B.C. Zhang &amp; Y.N. Yu) Trappe, T. Lebel &amp; Castellano</AUTHORS>
    <INFRASPECIFIC_x0020_RANK>sp.</INFRASPECIFIC_x0020_RANK>
    <RECORD_x0020_NUMBER>555555</RECORD_x0020_NUMBER>
  </IndexFungorum>
</NewDataSet>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		switch r.URL.Path {
		case "/NameSearch":
			assert.Equal(t, "false", r.URL.Query().Get("AnywhereInText"))
			_, _ = w.Write([]byte(searchBody))
		case "/NameByKey":
			if r.URL.Query().Get("NameKey") != "555555" {
				_, _ = w.Write([]byte(`<NewDataSet/>`))
				return
			}
			_, _ = w.Write([]byte(byKeyBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookup(t *testing.T) {
	src := New(transport.New(), newServer(t).URL)

	hits, err := src.Lookup(context.Background(), authority.Query{Name: "Amanita muscaria"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "140193", hits[0].ID)
	assert.Equal(t, "species", hits[0].Field(authority.FieldRank))
	assert.Equal(t, "(L.) Lam.", hits[0].Field(authority.FieldAuthors))
	assert.Equal(t, "1783", hits[0].Field("year"))
}

func TestMatchOnRank(t *testing.T) {
	a := NewAuthority(New(transport.New(), newServer(t).URL))
	field, value, ok := a.Disambiguator("species", "genus", "Amanita")
	require.True(t, ok)
	assert.Equal(t, authority.FieldRank, field)

	hit, err := authority.NewMatcher(a.Source).Match(context.Background(),
		authority.Candidate{Key: "Amanita muscaria", Rank: "species"}, field, value)
	require.NoError(t, err)
	assert.Equal(t, "140193", hit.ID)
}

func TestByKey(t *testing.T) {
	src := New(transport.New(), newServer(t).URL)

	hit, err := src.ByKey(context.Background(), "555555")
	require.NoError(t, err)
	assert.Equal(t, "Tuber lebelii", hit.Name)
	assert.Equal(t, "(B.C. Zhang & Y.N. Yu) Trappe, T. Lebel & Castellano", hit.Field(authority.FieldAuthors))

	_, err = src.ByKey(context.Background(), "1")
	assert.True(t, errors.IsNotFound(err))
}

func TestMalformedDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>maintenance</body></html>`))
	}))
	defer srv.Close()

	_, err := New(transport.New(), srv.URL).Lookup(context.Background(), authority.Query{Name: "x"})
	var pe *errors.ParseError
	assert.ErrorAs(t, err, &pe)
}
