package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Undefined is reported for the Hamming distance of sequences of
// different lengths.
const Undefined = "Ø"

// Board keys, in board order.
const (
	KeyLevenshteinChar  = "levensthein_distance_char"
	KeyLevenshteinWords = "levensthein_distance_words"
	KeyHamming          = "hamming_distance"
	KeyWER              = "wer"
	KeyWERHunt          = "wer_hunt"
	KeyCER              = "cer"
	KeyWacc             = "wacc"
	KeyMER              = "mer"
	KeyCIL              = "cil"
	KeyCIP              = "cip"
	KeyHits             = "hits"
	KeySubstitutions    = "substitutions"
	KeyDeletions        = "deletions"
	KeyInsertions       = "insertions"
)

var Keys = []string{
	KeyLevenshteinChar,
	KeyLevenshteinWords,
	KeyHamming,
	KeyWER,
	KeyWERHunt,
	KeyCER,
	KeyWacc,
	KeyMER,
	KeyCIL,
	KeyCIP,
	KeyHits,
	KeySubstitutions,
	KeyDeletions,
	KeyInsertions,
}

// Hamming is a Hamming distance that may be undefined.
type Hamming struct {
	Distance int
	Defined  bool
}

// Value is the distance, or Undefined.
func (h Hamming) Value() interface{} {
	if !h.Defined {
		return Undefined
	}
	return h.Distance
}

func (h Hamming) String() string {
	if !h.Defined {
		return Undefined
	}
	return strconv.Itoa(h.Distance)
}

func (h Hamming) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Value())
}

func (h *Hamming) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != Undefined {
			return fmt.Errorf("metrics: hamming distance %q", s)
		}
		*h = Hamming{}
		return nil
	}
	var d int
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("metrics: hamming distance %s: %v", data, err)
	}
	*h = Hamming{Distance: d, Defined: true}
	return nil
}

// Board is the score board of one comparison. Rates are presented
// (percent, truncation) as requested; distances and counts are raw, and
// weighted when the costs are not unit costs. Counts are character level.
type Board struct {
	LevenshteinChar  float64
	LevenshteinWords float64
	Hamming          Hamming
	WER              float64
	WERHunt          float64
	CER              float64
	Wacc             float64
	MER              float64
	CIL              float64
	CIP              float64
	Hits             float64
	Substitutions    float64
	Deletions        float64
	Insertions       float64
}

type Entry struct {
	Key   string
	Value interface{}
}

func (b *Board) fields() []*float64 {
	return []*float64{
		&b.LevenshteinChar,
		&b.LevenshteinWords,
		nil,
		&b.WER,
		&b.WERHunt,
		&b.CER,
		&b.Wacc,
		&b.MER,
		&b.CIL,
		&b.CIP,
		&b.Hits,
		&b.Substitutions,
		&b.Deletions,
		&b.Insertions,
	}
}

// Entries lists the board in key order.
func (b *Board) Entries() []Entry {
	fields := b.fields()
	entries := make([]Entry, len(Keys))
	for i, k := range Keys {
		if fields[i] == nil {
			entries[i] = Entry{k, b.Hamming.Value()}
			continue
		}
		entries[i] = Entry{k, *fields[i]}
	}
	return entries
}

func (b *Board) Get(key string) (interface{}, bool) {
	for _, e := range b.Entries() {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func (b *Board) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(Keys))
	for _, e := range b.Entries() {
		m[e.Key] = e.Value
	}
	return m
}

// MarshalJSON writes the board as an object in key order.
func (b *Board) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := b.fields()
	for i, k := range Keys {
		v, ok := raw[k]
		if !ok {
			return fmt.Errorf("metrics: board misses %q", k)
		}
		if fields[i] == nil {
			if err := b.Hamming.UnmarshalJSON(v); err != nil {
				return err
			}
			continue
		}
		if err := json.Unmarshal(v, fields[i]); err != nil {
			return fmt.Errorf("metrics: board %q: %v", k, err)
		}
	}
	return nil
}
