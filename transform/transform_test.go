package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	cases := []struct {
		t    Transform
		in   string
		want string
	}{
		{ToLowerCase, "Six  SEMAINES\nplus", "six semaines\nplus"},
		{ToLowerCase, " Six \t\nplus\n", "six\nplus\n"},
		{ToUpperCase, "straße été", "STRASSE ÉTÉ"},
		{RemoveDigits, "page 12 ligne3 4a", "page ligne a"},
		{RemoveDigits, "1914 1918", ""},
		{RemoveDigits, "folio 12\n1914\nfin", "folio\n\nfin"},
		{RemovePunct, "l'atelier, (vitrée).", "latelier vitrée"},
		{RemovePunct, "a - b", "a  b"},
		{RemovePunct, "tard,\nClaude.", "tard\nClaude"},
		{RemoveMarks, "été à Noël", "ete a Noel"},
		{RemoveMarks, "ligne\nsuivante", "ligne\nsuivante"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.t.Apply(c.in), "%s(%q)", c.t.Name, c.in)
	}
}

func TestParse(t *testing.T) {
	ts, err := Parse("xpd")
	require.NoError(t, err)
	require.Len(t, ts, 3)
	assert.Equal(t, "non_digits", ts[0].Name)
	assert.Equal(t, "remove_punctuation", ts[1].Name)
	assert.Equal(t, "remove_diacritics", ts[2].Name)

	ts, err = Parse("")
	require.NoError(t, err)
	assert.Empty(t, ts)

	_, err = Parse("DZ")
	assert.Error(t, err)
	_, err = Parse("é")
	assert.Error(t, err)
}

func TestCompose(t *testing.T) {
	ts, err := Parse("LPX")
	require.NoError(t, err)
	all := Compose(ts...)
	assert.Equal(t, AllName, all.Name)
	assert.Equal(t, "six semaines plus tard claude", all.Apply("Six semaines plus tard, Claude."))

	ref, pred := all.Pair("Été", "ete!")
	assert.Equal(t, ref, pred)

	assert.Equal(t, "As Is", Compose().Apply("As Is"))
}

func TestCounts(t *testing.T) {
	assert.Equal(t, 3, CountDiacritics("été à"))
	assert.Equal(t, 0, CountDiacritics("ete"))
	assert.Equal(t, 3, CountUpper("Claude NO"))
	assert.Equal(t, 5, CountLower("Claude NO"))
}
