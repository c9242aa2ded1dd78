package editdist

import (
	"errors"
	"fmt"
	"math"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// DefaultMaxCells bounds the cost matrix of a single alignment (128 MiB of
// int32 cells).
const DefaultMaxCells = 1 << 25

// ErrInvalidCost is returned for negative or NaN operation weights.
var ErrInvalidCost = errors.New("editdist: invalid cost")

// Costs weighs each kind of edit. Hits are always free.
type Costs struct {
	Insertion    float64
	Deletion     float64
	Substitution float64
}

// UnitCosts makes the weighted distance the plain Levenshtein distance.
var UnitCosts = Costs{Insertion: 1, Deletion: 1, Substitution: 1}

func NewCosts(insertion, deletion, substitution float64) (Costs, error) {
	c := Costs{Insertion: insertion, Deletion: deletion, Substitution: substitution}
	if err := c.Validate(); err != nil {
		return Costs{}, err
	}
	return c, nil
}

func (c Costs) Validate() error {
	for _, w := range []struct {
		name string
		v    float64
	}{
		{"insertion", c.Insertion},
		{"deletion", c.Deletion},
		{"substitution", c.Substitution},
	} {
		if math.IsNaN(w.v) || math.IsInf(w.v, 0) || w.v < 0 {
			return fmt.Errorf("%w: %s cost %v", ErrInvalidCost, w.name, w.v)
		}
	}
	return nil
}

func (c Costs) IsUnit() bool {
	return c == UnitCosts
}

// Alignment holds the operation counts of one alignment. Counts are taken
// over the source: Hits+Substitutions+Deletions is the source length.
type Alignment struct {
	Hits          int
	Substitutions int
	Deletions     int
	Insertions    int
	Costs         Costs
}

// Distance is the unweighted edit distance.
func (a Alignment) Distance() int {
	return a.Substitutions + a.Deletions + a.Insertions
}

func (a Alignment) WeightedSubstitutions() float64 {
	return a.Costs.Substitution * float64(a.Substitutions)
}

func (a Alignment) WeightedDeletions() float64 {
	return a.Costs.Deletion * float64(a.Deletions)
}

func (a Alignment) WeightedInsertions() float64 {
	return a.Costs.Insertion * float64(a.Insertions)
}

func (a Alignment) WeightedDistance() float64 {
	return a.WeightedInsertions() + a.WeightedDeletions() + a.WeightedSubstitutions()
}

// Add sums the counts of b into a. The costs of a are kept.
func (a Alignment) Add(b Alignment) Alignment {
	a.Hits += b.Hits
	a.Substitutions += b.Substitutions
	a.Deletions += b.Deletions
	a.Insertions += b.Insertions
	return a
}

func (a *Alignment) count(k Kind) {
	switch k {
	case Hit:
		a.Hits++
	case Substitution:
		a.Substitutions++
	case Deletion:
		a.Deletions++
	case Insertion:
		a.Insertions++
	}
}

// check asserts that every source and target symbol was consumed once.
func (a Alignment) check(source, target int) error {
	if a.Hits+a.Substitutions+a.Deletions != source ||
		a.Hits+a.Substitutions+a.Insertions != target {
		return fmt.Errorf("editdist: accounting mismatch: H=%d S=%d D=%d I=%d for lengths %d, %d",
			a.Hits, a.Substitutions, a.Deletions, a.Insertions, source, target)
	}
	return nil
}

// Aligner computes the operation counts of the minimum edit script of
// source into target. Costs weigh each class of operation; the
// classification itself only depends on symbol equality.
type Aligner interface {
	Align(source, target []rune, costs Costs) (Alignment, error)
}

// Matrix is the default Aligner. MaxCells bounds the cost matrix: zero
// means DefaultMaxCells, a negative value disables the bound.
type Matrix struct {
	MaxCells int
}

func (m Matrix) maxCells() int {
	if m.MaxCells == 0 {
		return DefaultMaxCells
	}
	return m.MaxCells
}

func (m Matrix) Align(source, target []rune, costs Costs) (Alignment, error) {
	if err := costs.Validate(); err != nil {
		return Alignment{}, err
	}
	al := Alignment{Costs: costs}
	err := editops(source, target, m.maxCells(), func(op Op) {
		al.count(op.Kind)
	})
	if err != nil {
		return Alignment{}, err
	}
	if err := al.check(len(source), len(target)); err != nil {
		return Alignment{}, err
	}
	return al, nil
}

// Script aligns with the edit scripts of
// github.com/texttheater/golang-levenshtein. Its tie breaking differs from
// Matrix, so counts may differ on ambiguous alignments while the distance
// is the same.
type Script struct {
	MaxCells int
}

func (s Script) Align(source, target []rune, costs Costs) (Alignment, error) {
	if err := costs.Validate(); err != nil {
		return Alignment{}, err
	}
	max := s.MaxCells
	if max == 0 {
		max = DefaultMaxCells
	}
	rows, cols := len(source)+1, len(target)+1
	if max > 0 && rows > max/cols {
		return Alignment{}, fmt.Errorf("%w: %d x %d cells (max %d)", ErrAlignmentOverflow, rows, cols, max)
	}
	opts := levenshtein.Options{
		InsCost: 1,
		DelCost: 1,
		SubCost: 1,
		Matches: levenshtein.IdenticalRunes,
	}
	al := Alignment{Costs: costs}
	for _, op := range levenshtein.EditScriptForStrings(source, target, opts) {
		switch op {
		case levenshtein.Match:
			al.count(Hit)
		case levenshtein.Sub:
			al.count(Substitution)
		case levenshtein.Del:
			al.count(Deletion)
		case levenshtein.Ins:
			al.count(Insertion)
		}
	}
	if err := al.check(len(source), len(target)); err != nil {
		return Alignment{}, err
	}
	return al, nil
}

// New returns the Aligner registered under name: "matrix" (or empty) and
// "script".
func New(name string, maxCells int) (Aligner, error) {
	switch name {
	case "", "matrix":
		return Matrix{MaxCells: maxCells}, nil
	case "script":
		return Script{MaxCells: maxCells}, nil
	}
	return nil, fmt.Errorf("editdist: unknown aligner %q (expected matrix or script)", name)
}
