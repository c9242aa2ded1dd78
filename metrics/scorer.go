// Package metrics scores a predicted transcription against its reference
// with the usual HTR/OCR measures.
//
// Distances
//
// The Levenshtein distance is computed on characters and on words (each
// distinct word being one symbol). The Hamming distance is only defined
// for strings of the same length.
//
// Rates
//
//	WER      = D(words) / reference words
//	WER Hunt = (S + D/2 + I/2) / reference words, on words
//	CER      = D(chars) / reference characters
//	Wacc     = 1 - WER
//	CIP      = (H / reference characters) * (H / predicted characters)
//	CIL      = 1 - CIP
//	MER      = (S + D + I) / (H + S + D + I), on characters
//
// With custom costs, distances and S, D, I counts are weighted. CIP and CIL
// are 0 for an empty prediction.
package metrics

import (
	"errors"
	"fmt"

	"github.com/ughe/kami/editdist"
)

// ErrEmptyReference is returned when a rate would be divided by a reference
// without words or characters.
var ErrEmptyReference = errors.New("metrics: empty reference")

type Options struct {
	Costs        editdist.Costs
	Presentation Presentation
	// Aligner defaults to editdist.Matrix.
	Aligner editdist.Aligner
	// BlockSize is the number of lines per block when an alignment is
	// too large to be done at once.
	BlockSize int
}

func DefaultOptions() Options {
	return Options{
		Costs:        editdist.UnitCosts,
		Presentation: Presentation{Digits: 2},
		Aligner:      editdist.Matrix{},
		BlockSize:    editdist.DefaultBlockSize,
	}
}

// Scorer is safe for concurrent use.
type Scorer struct {
	opts Options
}

func New(opts Options) (*Scorer, error) {
	if err := opts.Costs.Validate(); err != nil {
		return nil, err
	}
	if opts.Aligner == nil {
		opts.Aligner = editdist.Matrix{}
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = editdist.DefaultBlockSize
	}
	if opts.Presentation.Digits < 0 {
		return nil, fmt.Errorf("metrics: negative truncation digits %d", opts.Presentation.Digits)
	}
	return &Scorer{opts: opts}, nil
}

func (s *Scorer) Options() Options {
	return s.opts
}

// Score builds the board of prediction against reference.
func Score(reference, prediction string, opts Options) (*Board, error) {
	s, err := New(opts)
	if err != nil {
		return nil, err
	}
	return s.Score(reference, prediction)
}

func (s *Scorer) Score(reference, prediction string) (*Board, error) {
	refChars, predChars := []rune(reference), []rune(prediction)
	refWords, predWords := editdist.Words(reference), editdist.Words(prediction)
	if len(refChars) == 0 {
		return nil, fmt.Errorf("%w: no characters", ErrEmptyReference)
	}
	if len(refWords) == 0 {
		return nil, fmt.Errorf("%w: no words", ErrEmptyReference)
	}

	chars, words, err := s.align(refChars, predChars, refWords, predWords)
	if errors.Is(err, editdist.ErrAlignmentOverflow) {
		chars, words, err = s.alignBlocks(reference, prediction)
	}
	if err != nil {
		return nil, err
	}

	levChar, levWords := float64(chars.Distance()), float64(words.Distance())
	sub, del, ins := float64(chars.Substitutions), float64(chars.Deletions), float64(chars.Insertions)
	wsub, wdel, wins := float64(words.Substitutions), float64(words.Deletions), float64(words.Insertions)
	if !s.opts.Costs.IsUnit() {
		levChar, levWords = chars.WeightedDistance(), words.WeightedDistance()
		sub, del, ins = chars.WeightedSubstitutions(), chars.WeightedDeletions(), chars.WeightedInsertions()
		wsub, wdel, wins = words.WeightedSubstitutions(), words.WeightedDeletions(), words.WeightedInsertions()
	}
	hits := float64(chars.Hits)
	lenRefChars, lenPredChars := float64(len(refChars)), float64(len(predChars))
	lenRefWords := float64(len(refWords))

	wer := levWords / lenRefWords
	hunt := (wsub + 0.5*wdel + 0.5*wins) / lenRefWords
	cer := levChar / lenRefChars
	wacc := 1 - wer
	var cip, cil float64
	if len(predChars) > 0 {
		cip = (hits / lenRefChars) * (hits / lenPredChars)
		cil = 1 - cip
	}
	var mer float64
	if d := hits + sub + del + ins; d > 0 {
		mer = (sub + del + ins) / d
	}

	hamming := Hamming{}
	hamming.Distance, hamming.Defined = editdist.Hamming(refChars, predChars)

	p := s.opts.Presentation
	return &Board{
		LevenshteinChar:  levChar,
		LevenshteinWords: levWords,
		Hamming:          hamming,
		WER:              p.Apply(wer),
		WERHunt:          p.Apply(hunt),
		CER:              p.Apply(cer),
		Wacc:             p.Apply(wacc),
		MER:              p.Apply(mer),
		CIL:              p.Apply(cil),
		CIP:              p.Apply(cip),
		Hits:             hits,
		Substitutions:    sub,
		Deletions:        del,
		Insertions:       ins,
	}, nil
}

func (s *Scorer) align(refChars, predChars []rune, refWords, predWords []string) (chars, words editdist.Alignment, err error) {
	chars, err = s.opts.Aligner.Align(refChars, predChars, s.opts.Costs)
	if err != nil {
		return
	}
	reg := editdist.NewRegister()
	words, err = s.opts.Aligner.Align(reg.Encode(refWords), reg.Encode(predWords), s.opts.Costs)
	return
}

// alignBlocks aligns both texts block by block and sums the counts. Edits
// are not allowed to cross block boundaries, so the result may be larger
// than the global minimum when lines are added or lost.
func (s *Scorer) alignBlocks(reference, prediction string) (chars, words editdist.Alignment, err error) {
	refBlocks := editdist.Blocks(reference, s.opts.BlockSize)
	predBlocks := editdist.Blocks(prediction, s.opts.BlockSize)
	n := len(refBlocks)
	if len(predBlocks) > n {
		n = len(predBlocks)
	}
	chars = editdist.Alignment{Costs: s.opts.Costs}
	words = editdist.Alignment{Costs: s.opts.Costs}
	reg := editdist.NewRegister()
	for i := 0; i < n; i++ {
		var ref, pred string
		if i < len(refBlocks) {
			ref = refBlocks[i]
		}
		if i < len(predBlocks) {
			pred = predBlocks[i]
		}
		c, err := s.opts.Aligner.Align([]rune(ref), []rune(pred), s.opts.Costs)
		if err != nil {
			return chars, words, fmt.Errorf("block %d: %w", i, err)
		}
		w, err := s.opts.Aligner.Align(reg.Encode(editdist.Words(ref)), reg.Encode(editdist.Words(pred)), s.opts.Costs)
		if err != nil {
			return chars, words, fmt.Errorf("block %d: %w", i, err)
		}
		chars = chars.Add(c)
		words = words.Add(w)
	}
	return chars, words, nil
}
