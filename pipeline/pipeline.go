// Package pipeline evaluates a prediction against its reference in one
// call: inputs are read, optional transforms applied, and every variant
// scored.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ughe/kami/metrics"
	"github.com/ughe/kami/ocr"
	"github.com/ughe/kami/parser"
	"github.com/ughe/kami/transform"
)

// DefaultName is the key of the scores of the untransformed texts.
const DefaultName = "default"

// Counter keys.
const (
	KeyCharRemovedReference        = "Total_char_removed_from_reference"
	KeyCharRemovedPrediction       = "Total_char_removed_from_prediction"
	KeyDiacriticsRemovedReference  = "Total_diacritics_removed_from_reference"
	KeyDiacriticsRemovedPrediction = "Total_diacritics_removed_from_prediction"
	KeyUppercasedReference         = "Total_char_pass_in_uppercase_in_reference"
	KeyUppercasedPrediction        = "Total_char_pass_in_uppercase_in_prediction"
	KeyLowercasedReference         = "Total_char_pass_in_lowercase_in_reference"
	KeyLowercasedPrediction        = "Total_char_pass_in_lowercase_in_prediction"
	KeyLengthReference             = "Length_reference"
	KeyLengthPrediction            = "Length_prediction"
	KeyLengthReferenceTransformed  = "Length_reference_transformed"
	KeyLengthPredictionTransformed = "Length_prediction_transformed"
)

type Options struct {
	Score      metrics.Options
	Transforms []transform.Transform
	// Workers bounds the variants scored at once, 0 meaning one per CPU.
	Workers int
}

func DefaultOptions() Options {
	return Options{Score: metrics.DefaultOptions()}
}

// Variant is the board of one version of the texts.
type Variant struct {
	Name  string
	Board *metrics.Board
}

type Counter struct {
	Key   string
	Value int
}

// Report gathers the boards of an evaluation. Without transforms it holds
// the default board only.
type Report struct {
	Reference             string
	Prediction            string
	ReferenceTransformed  string
	PredictionTransformed string
	Variants              []Variant
	Counters              []Counter
}

// Default returns the board of the untransformed texts.
func (r *Report) Default() *metrics.Board {
	return r.Board(DefaultName)
}

func (r *Report) Board(name string) *metrics.Board {
	for _, v := range r.Variants {
		if v.Name == name {
			return v.Board
		}
	}
	return nil
}

func (r *Report) Counter(key string) (int, bool) {
	for _, c := range r.Counters {
		if c.Key == key {
			return c.Value, true
		}
	}
	return 0, false
}

// MarshalJSON writes the default board alone, or, with transforms, an
// object of every board followed by the counters.
func (r *Report) MarshalJSON() ([]byte, error) {
	if len(r.Variants) == 1 && len(r.Counters) == 0 {
		return json.Marshal(r.Variants[0].Board)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(i int, key string, v interface{}) error {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}
	i := 0
	for _, v := range r.Variants {
		if err := write(i, v.Name, v.Board); err != nil {
			return nil, err
		}
		i++
	}
	for _, c := range r.Counters {
		if err := write(i, c.Key, c.Value); err != nil {
			return nil, err
		}
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ErrInput is returned when the texts to compare cannot be read.
var ErrInput = errors.New("pipeline: invalid input")

// Texts reads the reference and the prediction. Two paths ending in "txt"
// are read as text files, anything else is taken as the texts themselves.
func Texts(reference, prediction string) (string, string, error) {
	if !strings.HasSuffix(reference, "txt") || !strings.HasSuffix(prediction, "txt") {
		return reference, prediction, nil
	}
	ref, err := readText(reference)
	if err != nil {
		return "", "", err
	}
	pred, err := readText(prediction)
	if err != nil {
		return "", "", err
	}
	return ref, pred, nil
}

func readText(name string) (string, error) {
	buf, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInput, err)
	}
	return parser.Clean(string(buf)), nil
}

// FromXML reads the reference from a PAGE or ALTO file and transcribes the
// image with client to get the prediction. When image is empty the image
// named in the document is used, relative to the XML file.
func FromXML(ctx context.Context, xmlPath, image string, client ocr.Client) (reference, prediction string, err error) {
	doc, err := parser.ReadXML(xmlPath)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInput, err)
	}
	if image == "" {
		if doc.Image == "" {
			return "", "", fmt.Errorf("%w: %s names no image", ErrInput, xmlPath)
		}
		image = filepath.Join(filepath.Dir(xmlPath), doc.Image)
	}
	img, err := os.ReadFile(image)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInput, err)
	}
	result, err := client.Run(ctx, img)
	if err != nil {
		return "", "", fmt.Errorf("pipeline: %s: %v", image, err)
	}
	return doc.Content(), strings.Join(result.Lines(), "\n"), nil
}

// Evaluate scores prediction against reference, then each transform alone
// and all of them together.
func Evaluate(ctx context.Context, reference, prediction string, opts Options) (*Report, error) {
	scorer, err := metrics.New(opts.Score)
	if err != nil {
		return nil, err
	}
	r := &Report{Reference: reference, Prediction: prediction}
	if len(opts.Transforms) == 0 {
		b, err := scorer.Score(reference, prediction)
		if err != nil {
			return nil, err
		}
		r.Variants = []Variant{{DefaultName, b}}
		return r, nil
	}

	all := transform.Compose(opts.Transforms...)
	r.ReferenceTransformed, r.PredictionTransformed = all.Pair(reference, prediction)
	pairs := []metrics.Pair{{Name: DefaultName, Reference: reference, Prediction: prediction}}
	for _, t := range opts.Transforms {
		ref, pred := t.Pair(reference, prediction)
		pairs = append(pairs, metrics.Pair{Name: t.Name, Reference: ref, Prediction: pred})
	}
	pairs = append(pairs, metrics.Pair{Name: all.Name, Reference: r.ReferenceTransformed, Prediction: r.PredictionTransformed})

	outcomes, err := scorer.BatchParallel(ctx, pairs, opts.Workers)
	if err != nil {
		return nil, err
	}
	for _, o := range outcomes {
		if o.Err != nil {
			return nil, fmt.Errorf("%s: %w", o.Name, o.Err)
		}
		r.Variants = append(r.Variants, Variant{o.Name, o.Board})
	}
	r.Counters = r.counters(opts.Transforms)
	return r, nil
}

func (r *Report) counters(ts []transform.Transform) []Counter {
	length := func(s string) int { return len([]rune(s)) }
	has := func(code byte) bool {
		for _, t := range ts {
			if t.Code == code {
				return true
			}
		}
		return false
	}
	counters := []Counter{
		{KeyCharRemovedReference, length(r.Reference) - length(r.ReferenceTransformed)},
		{KeyCharRemovedPrediction, length(r.Prediction) - length(r.PredictionTransformed)},
	}
	if has(transform.RemoveMarks.Code) {
		counters = append(counters,
			Counter{KeyDiacriticsRemovedReference, transform.CountDiacritics(r.Reference) - transform.CountDiacritics(r.ReferenceTransformed)},
			Counter{KeyDiacriticsRemovedPrediction, transform.CountDiacritics(r.Prediction) - transform.CountDiacritics(r.PredictionTransformed)})
	}
	if has(transform.ToUpperCase.Code) {
		counters = append(counters,
			Counter{KeyUppercasedReference, transform.CountLower(r.Reference)},
			Counter{KeyUppercasedPrediction, transform.CountLower(r.Prediction)})
	}
	if has(transform.ToLowerCase.Code) {
		counters = append(counters,
			Counter{KeyLowercasedReference, transform.CountUpper(r.Reference)},
			Counter{KeyLowercasedPrediction, transform.CountUpper(r.Prediction)})
	}
	return append(counters,
		Counter{KeyLengthReference, length(r.Reference)},
		Counter{KeyLengthPrediction, length(r.Prediction)},
		Counter{KeyLengthReferenceTransformed, length(r.ReferenceTransformed)},
		Counter{KeyLengthPredictionTransformed, length(r.PredictionTransformed)})
}
