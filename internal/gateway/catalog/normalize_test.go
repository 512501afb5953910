package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"Caf&eacute; &amp; more", "Café & more"},
		{"  <i>trimmed</i>  ", "trimmed"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StripHTML(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeDefaultsTitle(t *testing.T) {
	v := normalize(&rawItem{ID: "x"})
	assert.Equal(t, "Unknown Title", v.Title)
	assert.Equal(t, "", v.FirstAuthor())
	assert.Equal(t, "", v.ISBN13())
}

func TestNormalizeStripsDescription(t *testing.T) {
	v := normalize(&rawItem{
		ID: "x",
		VolumeInfo: rawVolumeInfo{
			Title:       "T",
			Description: "<p>A &quot;classic&quot;</p>",
		},
	})
	assert.Equal(t, `A "classic"`, v.Description)
}
