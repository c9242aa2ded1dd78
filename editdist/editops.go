package editdist

import (
	"errors"
	"fmt"
)

// Kind classifies one step of an edit script.
type Kind int

const (
	Hit Kind = iota
	Substitution
	Deletion
	Insertion
)

func (k Kind) String() string {
	switch k {
	case Hit:
		return "hit"
	case Substitution:
		return "substitution"
	case Deletion:
		return "deletion"
	case Insertion:
		return "insertion"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Op is one step of an edit script. Source and Target are positions in the
// source and target sequences. A Deletion consumes only Source, an
// Insertion only Target.
type Op struct {
	Kind   Kind
	Source int
	Target int
}

// ErrAlignmentOverflow is returned when the cost matrix needed for a full
// backtrace is larger than the configured bound.
var ErrAlignmentOverflow = errors.New("editdist: alignment exceeds matrix bound")

var errLost = errors.New("editdist: lost in the cost matrix")

// EditOps returns the minimum cost edit script transforming a into b,
// hits included, in source order.
func EditOps(a []rune, b []rune) ([]Op, error) {
	ops := make([]Op, 0, len(a)+len(b))
	err := editops(a, b, -1, func(op Op) {
		ops = append(ops, op)
	})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops, nil
}

// editops fills the cost matrix of a against b, once the common prefix and
// suffix are stripped, and walks it back from the bottom right corner.
// Operations are emitted in reverse order. The walk keeps going in the
// current direction while it can, then prefers hit, substitution,
// insertion and deletion, in that order. This is the order used by the
// python-Levenshtein editops routine, so counts line up with scores
// published with it.
func editops(a []rune, b []rune, maxCells int, emit func(Op)) error {
	pre := 0
	for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && a[len(a)-1-suf] == b[len(b)-1-suf] {
		suf++
	}
	for k := 0; k < suf; k++ {
		emit(Op{Hit, len(a) - 1 - k, len(b) - 1 - k})
	}
	s1 := a[pre : len(a)-suf]
	s2 := b[pre : len(b)-suf]
	rows, cols := len(s1)+1, len(s2)+1
	if maxCells > 0 && rows > maxCells/cols {
		return fmt.Errorf("%w: %d x %d cells (max %d)", ErrAlignmentOverflow, rows, cols, maxCells)
	}

	m := make([]int32, rows*cols)
	for j := 0; j < cols; j++ {
		m[j] = int32(j)
	}
	for i := 1; i < rows; i++ {
		row := i * cols
		prev := row - cols
		m[row] = int32(i)
		c1 := s1[i-1]
		for j := 1; j < cols; j++ {
			x := m[prev+j-1]
			if c1 != s2[j-1] {
				x++
			}
			if c := m[row+j-1] + 1; c < x {
				x = c
			}
			if c := m[prev+j] + 1; c < x {
				x = c
			}
			m[row+j] = x
		}
	}

	i, j := rows-1, cols-1
	dir := 0
	for i > 0 || j > 0 {
		p := i*cols + j
		switch {
		case dir < 0 && j > 0 && m[p] == m[p-1]+1:
			j--
			emit(Op{Insertion, pre + i, pre + j})
		case dir > 0 && i > 0 && m[p] == m[p-cols]+1:
			i--
			emit(Op{Deletion, pre + i, pre + j})
		case i > 0 && j > 0 && m[p] == m[p-cols-1] && s1[i-1] == s2[j-1]:
			i--
			j--
			emit(Op{Hit, pre + i, pre + j})
			dir = 0
		case i > 0 && j > 0 && m[p] == m[p-cols-1]+1:
			i--
			j--
			emit(Op{Substitution, pre + i, pre + j})
			dir = 0
		// No turning straight from insertions to deletions.
		case dir == 0 && j > 0 && m[p] == m[p-1]+1:
			j--
			emit(Op{Insertion, pre + i, pre + j})
			dir = -1
		case dir == 0 && i > 0 && m[p] == m[p-cols]+1:
			i--
			emit(Op{Deletion, pre + i, pre + j})
			dir = 1
		default:
			return fmt.Errorf("%w at (%d, %d)", errLost, pre+i, pre+j)
		}
	}

	for k := pre - 1; k >= 0; k-- {
		emit(Op{Hit, k, k})
	}
	return nil
}
