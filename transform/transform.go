// Package transform normalizes a reference and a prediction before they are
// scored again, to see how much of the error comes from case, digits,
// punctuation or diacritics.
package transform

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transform rewrites a text. Code is the one letter used on the command
// line, Name the key of its scores.
type Transform struct {
	Code  byte
	Name  string
	apply func(string) string
}

func (t Transform) Apply(s string) string {
	return t.apply(s)
}

// Pair applies t to both sides of a comparison.
func (t Transform) Pair(reference, prediction string) (string, string) {
	return t.apply(reference), t.apply(prediction)
}

var (
	RemoveDigits = Transform{'D', "non_digits", removeDigits}
	ToUpperCase  = Transform{'U', "uppercase", upper}
	ToLowerCase  = Transform{'L', "lowercase", lower}
	RemovePunct  = Transform{'P', "remove_punctuation", removePunctuation}
	RemoveMarks  = Transform{'X', "remove_diacritics", removeDiacritics}
)

// All lists the transforms in the order their scores are reported.
var All = []Transform{RemoveDigits, ToUpperCase, ToLowerCase, RemovePunct, RemoveMarks}

// AllName is the key of the scores of all selected transforms at once.
const AllName = "all_transforms"

// Parse selects the transforms named by codes, e.g. "XPD". White space is
// ignored. The result follows the order of All.
func Parse(codes string) ([]Transform, error) {
	seen := make(map[byte]bool)
	for _, r := range codes {
		if unicode.IsSpace(r) {
			continue
		}
		c := byte(unicode.ToUpper(r))
		if r > unicode.MaxASCII || !strings.ContainsRune("DULPX", rune(c)) {
			return nil, fmt.Errorf("transform: unknown code %q (expected D, U, L, P or X)", r)
		}
		seen[c] = true
	}
	var ts []Transform
	for _, t := range All {
		if seen[t.Code] {
			ts = append(ts, t)
		}
	}
	return ts, nil
}

// Compose applies ts in order.
func Compose(ts ...Transform) Transform {
	return Transform{Name: AllName, apply: func(s string) string {
		for _, t := range ts {
			s = t.apply(s)
		}
		return s
	}}
}

// tokens rewrites each white space separated token of every line and joins
// them with single spaces. Line breaks are kept so the result can still be
// aligned block by block.
func tokens(s string, f func(string) string) string {
	return perLine(s, func(line string) string {
		fields := strings.Fields(line)
		for i, tok := range fields {
			fields[i] = f(tok)
		}
		return strings.Join(fields, " ")
	})
}

func perLine(s string, f func(string) string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = f(line)
	}
	return strings.Join(lines, "\n")
}

func lower(s string) string {
	return tokens(s, cases.Lower(language.Und).String)
}

func upper(s string) string {
	return tokens(s, cases.Upper(language.Und).String)
}

var digits = regexp.MustCompile(`\p{Nd}+`)

func isDigits(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return tok != ""
}

func removeDigits(s string) string {
	return perLine(s, func(line string) string {
		fields := strings.Fields(line)
		out := fields[:0]
		for _, tok := range fields {
			if isDigits(tok) {
				continue
			}
			out = append(out, digits.ReplaceAllString(tok, ""))
		}
		return strings.Join(out, " ")
	})
}

// Punctuation is the ASCII punctuation removed by RemovePunct.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func removePunctuation(s string) string {
	return tokens(s, func(tok string) string {
		return strings.Map(func(r rune) rune {
			if r <= unicode.MaxASCII && strings.ContainsRune(Punctuation, r) {
				return -1
			}
			return r
		}, tok)
	})
}

func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CountDiacritics counts the combining marks of s once decomposed.
func CountDiacritics(s string) int {
	n := 0
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			n++
		}
	}
	return n
}

func CountUpper(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n
}

func CountLower(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			n++
		}
	}
	return n
}
