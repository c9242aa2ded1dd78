package editdist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := NewRegister()
	a := reg.Encode([]string{"w1", "w2", "w3"})
	b := reg.Encode([]string{"w4", "w5", "w1"})
	assert.Equal(t, []rune{0, 1, 2}, a)
	assert.Equal(t, []rune{3, 4, 0}, b)
	assert.Equal(t, 5, reg.Len())

	// A fresh register starts over.
	assert.Equal(t, []rune{0}, NewRegister().Encode([]string{"w5"}))
}

func TestWordAlignment(t *testing.T) {
	reg := NewRegister()
	a := reg.Encode(Words(reference))
	b := reg.Encode(Words(prediction))
	require.Len(t, a, 21)
	al, err := Matrix{}.Align(a, b, UnitCosts)
	require.NoError(t, err)
	assert.Equal(t, 6, al.Distance())
	assert.Equal(t, 4, al.Substitutions)
	assert.Equal(t, 2, al.Deletions)
	assert.Equal(t, 0, al.Insertions)
}

func TestBlocks(t *testing.T) {
	assert.Nil(t, Blocks("", 2))
	assert.Equal(t, []string{"a\nb\n", "c"}, Blocks("a\nb\nc", 2))
	assert.Equal(t, []string{"a\nb\n", "c\n"}, Blocks("a\nb\nc\n", 2))

	var lines []string
	for i := 0; i < 95; i++ {
		lines = append(lines, strings.Repeat("x", i%7))
	}
	text := strings.Join(lines, "\n")
	blocks := Blocks(text, 0)
	assert.Len(t, blocks, 4)
	assert.Equal(t, text, strings.Join(blocks, ""))
}
