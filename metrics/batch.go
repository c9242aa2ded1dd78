package metrics

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pair is one comparison of a batch.
type Pair struct {
	Name       string
	Reference  string
	Prediction string
}

// Outcome is the board of a Pair, or the error that prevented it.
type Outcome struct {
	Name  string
	Board *Board
	Err   error
}

// Batch scores pairs one after the other.
func (s *Scorer) Batch(pairs []Pair) []Outcome {
	out := make([]Outcome, len(pairs))
	for i, p := range pairs {
		b, err := s.Score(p.Reference, p.Prediction)
		out[i] = Outcome{Name: p.Name, Board: b, Err: err}
	}
	return out
}

// BatchParallel scores pairs on up to workers goroutines (NumCPU when
// workers <= 0). Outcomes keep the order of pairs. A failed comparison is
// reported in its Outcome; only cancellation of ctx fails the batch.
func (s *Scorer) BatchParallel(ctx context.Context, pairs []Pair, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	out := make([]Outcome, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range pairs {
		if gctx.Err() != nil {
			break
		}
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := s.Score(p.Reference, p.Prediction)
			out[i] = Outcome{Name: p.Name, Board: b, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
