package citation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wdtaxa/pkg/citation"
	"github.com/agentstation/wdtaxa/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		citation string
		want     *citation.Parsed
	}{
		{
			name:     "basionym dropped and periods compressed",
			citation: "(B.C. Zhang & Y.N. Yu) Trappe, T. Lebel & Castellano",
			want:     &citation.Parsed{Auth: []string{"Trappe", "T.Lebel", "Castellano"}},
		},
		{
			name:     "ex author",
			citation: "Fr. ex Fr.",
			want:     &citation.Parsed{ExAuth: []string{"Fr."}, Auth: []string{"Fr."}},
		},
		{
			name:     "single author",
			citation: "Singer",
			want:     &citation.Parsed{Auth: []string{"Singer"}},
		},
		{
			name:     "publication dropped",
			citation: "Berk. & Broome in Hooker",
			want:     &citation.Parsed{Auth: []string{"Berk.", "Broome"}},
		},
		{
			name:     "basionym with ex clause",
			citation: "(Pers.) Kuntze ex P. Karst.",
			want:     &citation.Parsed{ExAuth: []string{"Kuntze"}, Auth: []string{"P.Karst."}},
		},
		{
			name:     "surrounding whitespace",
			citation: "  Quél.  ",
			want:     &citation.Parsed{Auth: []string{"Quél."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := citation.Parse(tt.citation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.ExAuth != nil, got.HasEx())
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name     string
		citation string
	}{
		{name: "more than one ex", citation: "A ex B ex C"},
		{name: "semicolon", citation: "A; B"},
		{name: "colon", citation: "Fr.: Fr."},
		{name: "question mark", citation: "Pers.?"},
		{name: "two parentheses", citation: "(A) (B) C"},
		{name: "punctuation after basionym", citation: "(Fr.) Fr.: Fr."},
		{name: "two in separators", citation: "A in B in C"},
		{name: "empty", citation: ""},
		{name: "only basionym", citation: "(Fr.)"},
		{name: "dangling comma", citation: "Berk., "},
		{name: "empty ex side", citation: " ex Fr."},
		{name: "double separator", citation: "Berk. & & Broome"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := citation.Parse(tt.citation)
			assert.Nil(t, got)
			require.Error(t, err)
			assert.True(t, errors.IsUnparseableCitation(err))
			assert.Contains(t, err.Error(), tt.citation)
		})
	}
}

func TestParseDoesNotNormalizeOtherPunctuation(t *testing.T) {
	got, err := citation.Parse("De Not. & Ces.-Sacc.")
	require.NoError(t, err)
	assert.Equal(t, []string{"De Not.", "Ces.-Sacc."}, got.Auth)
}
