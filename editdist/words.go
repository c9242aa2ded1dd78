package editdist

import (
	"strings"
)

// DefaultBlockSize is the number of lines per block when an alignment has
// to be split.
const DefaultBlockSize = 30

// Register maps words to dense ids so that word sequences can be aligned
// as symbol sequences. Ids are given on first sight, starting at 0. Use one
// Register per comparison so that both sides share ids.
type Register struct {
	ids map[string]rune
}

func NewRegister() *Register {
	return &Register{ids: make(map[string]rune)}
}

func (r *Register) ID(word string) rune {
	if id, ok := r.ids[word]; ok {
		return id
	}
	id := rune(len(r.ids))
	r.ids[word] = id
	return id
}

// Encode returns the ids of words, registering unseen ones.
func (r *Register) Encode(words []string) []rune {
	ids := make([]rune, len(words))
	for i, w := range words {
		ids[i] = r.ID(w)
	}
	return ids
}

func (r *Register) Len() int {
	return len(r.ids)
}

// Words splits text on white space.
func Words(text string) []string {
	return strings.Fields(text)
}

// Blocks splits text into chunks of size lines. Line breaks stay with the
// line they end, so the blocks concatenate back to text.
func Blocks(text string, size int) []string {
	if size <= 0 {
		size = DefaultBlockSize
	}
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	blocks := make([]string, 0, len(lines)/size+1)
	for i := 0; i < len(lines); i += size {
		j := i + size
		if j > len(lines) {
			j = len(lines)
		}
		blocks = append(blocks, strings.Join(lines[i:j], ""))
	}
	return blocks
}
