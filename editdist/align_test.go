package editdist

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	reference  = "Six semaines plus tard, Claude peignait un matin dans un flot de soleil qui tombait par la baie vitrée de l'atelier."
	prediction = "Six semaiNEs plus tard, lCCaude peignait un MA dans un flotille de soleil qui tombait baie vitrée de l'atelier."
)

func TestAlignCounts(t *testing.T) {
	cases := []struct {
		a, b       string
		h, s, d, i int
	}{
		{"kitten", "sitting", 4, 2, 0, 1},
		{"flaw", "lawn", 3, 0, 1, 1},
		{"saturday", "sunday", 5, 1, 2, 0},
		{"gumbo", "gambol", 4, 1, 0, 1},
		{"intention", "execution", 4, 5, 0, 0},
		{"", "abc", 0, 0, 0, 3},
		{"abc", "", 0, 0, 3, 0},
		{reference, prediction, 101, 5, 10, 5},
	}
	for _, c := range cases {
		al, err := Matrix{}.Align([]rune(c.a), []rune(c.b), UnitCosts)
		require.NoError(t, err, "%q %q", c.a, c.b)
		assert.Equal(t, c.h, al.Hits, "hits %q %q", c.a, c.b)
		assert.Equal(t, c.s, al.Substitutions, "substitutions %q %q", c.a, c.b)
		assert.Equal(t, c.d, al.Deletions, "deletions %q %q", c.a, c.b)
		assert.Equal(t, c.i, al.Insertions, "insertions %q %q", c.a, c.b)
	}
}

func TestAlignIdentity(t *testing.T) {
	for _, s := range []string{"", "a", reference, "l’atelier\nvitrée"} {
		al, err := Matrix{}.Align([]rune(s), []rune(s), UnitCosts)
		require.NoError(t, err)
		assert.Equal(t, len([]rune(s)), al.Hits)
		assert.Zero(t, al.Distance())
		assert.Zero(t, al.WeightedDistance())
	}
}

func TestEditOps(t *testing.T) {
	ops, err := EditOps([]rune("kitten"), []rune("sitting"))
	require.NoError(t, err)
	assert.Equal(t, []Op{
		{Substitution, 0, 0},
		{Hit, 1, 1},
		{Hit, 2, 2},
		{Hit, 3, 3},
		{Substitution, 4, 4},
		{Hit, 5, 5},
		{Insertion, 6, 6},
	}, ops)

	ops, err = EditOps([]rune("flaw"), []rune("lawn"))
	require.NoError(t, err)
	assert.Equal(t, []Op{
		{Deletion, 0, 0},
		{Hit, 1, 0},
		{Hit, 2, 1},
		{Hit, 3, 2},
		{Insertion, 4, 3},
	}, ops)
}

func randomText(r *rand.Rand, n int) []rune {
	const alphabet = "abcde éf\n"
	letters := []rune(alphabet)
	s := make([]rune, n)
	for i := range s {
		s[i] = letters[r.Intn(len(letters))]
	}
	return s
}

func TestAccounting(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	aligners := []Aligner{Matrix{}, Script{}}
	for k := 0; k < 200; k++ {
		a := randomText(r, r.Intn(40))
		b := randomText(r, r.Intn(40))
		want := Levenshtein(a, b)
		for _, aligner := range aligners {
			al, err := aligner.Align(a, b, UnitCosts)
			require.NoError(t, err)
			assert.Equal(t, len(a), al.Hits+al.Substitutions+al.Deletions, "%T %q %q", aligner, string(a), string(b))
			assert.Equal(t, len(b), al.Hits+al.Substitutions+al.Insertions, "%T %q %q", aligner, string(a), string(b))
			assert.Equal(t, want, al.Distance(), "%T %q %q", aligner, string(a), string(b))
		}
	}
}

func TestCostScaling(t *testing.T) {
	a, b := []rune(reference), []rune(prediction)
	unit, err := Matrix{}.Align(a, b, UnitCosts)
	require.NoError(t, err)
	double, err := Matrix{}.Align(a, b, Costs{Insertion: 2, Deletion: 2, Substitution: 2})
	require.NoError(t, err)

	assert.Equal(t, float64(unit.Distance()), unit.WeightedDistance())
	assert.Equal(t, 2*unit.WeightedDistance(), double.WeightedDistance())
	assert.Equal(t, unit.Hits, double.Hits)
	assert.Equal(t, unit.Substitutions, double.Substitutions)
	assert.Equal(t, unit.Deletions, double.Deletions)
	assert.Equal(t, unit.Insertions, double.Insertions)

	costs, err := NewCosts(0.5, 2, 1.5)
	require.NoError(t, err)
	weighted, err := Matrix{}.Align(a, b, costs)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*5+2*10+1.5*5, weighted.WeightedDistance(), 1e-9)
}

func TestAlignEmpty(t *testing.T) {
	costs := Costs{Insertion: 2, Deletion: 3, Substitution: 1}
	al, err := Matrix{}.Align(nil, []rune("abcd"), costs)
	require.NoError(t, err)
	assert.Equal(t, 8.0, al.WeightedDistance())

	al, err = Matrix{}.Align([]rune("abcd"), nil, costs)
	require.NoError(t, err)
	assert.Equal(t, 12.0, al.WeightedDistance())
	assert.Equal(t, 4, al.Deletions)
}

func TestInvalidCost(t *testing.T) {
	_, err := NewCosts(1, -0.5, 1)
	assert.True(t, errors.Is(err, ErrInvalidCost))

	_, err = Matrix{}.Align([]rune("a"), []rune("b"), Costs{Insertion: -1})
	assert.True(t, errors.Is(err, ErrInvalidCost))

	assert.True(t, UnitCosts.IsUnit())
	assert.False(t, Costs{1, 1, 2}.IsUnit())
}

func TestOverflow(t *testing.T) {
	a := []rune(strings.Repeat("ab", 100))
	b := []rune(strings.Repeat("ba", 100))
	_, err := Matrix{MaxCells: 1000}.Align(a, b, UnitCosts)
	assert.True(t, errors.Is(err, ErrAlignmentOverflow))

	_, err = Script{MaxCells: 1000}.Align(a, b, UnitCosts)
	assert.True(t, errors.Is(err, ErrAlignmentOverflow))

	// The common prefix and suffix do not count towards the bound.
	al, err := Matrix{MaxCells: 1000}.Align(a, a, UnitCosts)
	require.NoError(t, err)
	assert.Equal(t, len(a), al.Hits)

	_, err = Matrix{MaxCells: -1}.Align(a, b, UnitCosts)
	assert.NoError(t, err)
}

func TestNew(t *testing.T) {
	al, err := New("", 0)
	require.NoError(t, err)
	assert.IsType(t, Matrix{}, al)
	al, err = New("script", 10)
	require.NoError(t, err)
	assert.Equal(t, Script{MaxCells: 10}, al)
	_, err = New("c", 0)
	assert.Error(t, err)
}
