package metrics

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Presentation controls how rates are reported.
type Presentation struct {
	Percent  bool
	Truncate bool
	Digits   int32
}

// Apply scales x to a percentage, then truncates it.
func (p Presentation) Apply(x float64) float64 {
	if p.Percent {
		x = x * 100
	}
	if p.Truncate {
		x = Truncate(x, p.Digits)
	}
	return x
}

// Truncate drops the digits of x past the given number of fractional
// digits, rounding toward zero. It works on the shortest decimal that
// reads back as x, so 17.24 stays 17.24 and truncating twice is a no-op.
// The exact binary value of 17.24 is 17.2399999..., which would truncate
// to 17.23. That expansion is not used.
func Truncate(x float64, digits int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Truncate(digits).Float64()
	return f
}

// ParseRoundDigits reads a number of fractional digits either as an
// integer ("2") or as a quantum (".01", "0.001").
func ParseRoundDigits(s string) (int32, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("metrics: negative round digits %q", s)
		}
		return int32(n), nil
	}
	i := strings.IndexByte(s, '.')
	if i < 0 || strings.Trim(s[:i], "0") != "" {
		return 0, fmt.Errorf("metrics: round digits %q (expected 2 or .01)", s)
	}
	frac := s[i+1:]
	if frac == "" || strings.TrimLeft(frac, "0") != "1" {
		return 0, fmt.Errorf("metrics: round digits %q (expected 2 or .01)", s)
	}
	return int32(len(frac)), nil
}
