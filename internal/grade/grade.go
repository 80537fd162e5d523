// Package grade maps the fixed A–G letter scale to ordinal values 0..6.
//
// Two modes exist side by side: the lenient functions reproduce the
// historical behavior of the evaluation sheets (unknown code -> 0,
// out-of-range value -> "A") and are what the score aggregation uses;
// the strict functions return errors and back the validator and the
// interactive answer endpoint.
package grade

import (
	"errors"
	"math"
	"strings"
)

// Letters is the full grade alphabet in ordinal order: Letters[0] == "A".
var Letters = []string{"A", "B", "C", "D", "E", "F", "G"}

var (
	ErrInvalidCode = errors.New("grade: invalid code")
	ErrOutOfRange  = errors.New("grade: value out of range")
)

// Value converts a letter code to its ordinal. Case-insensitive.
func Value(code string) (int, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 1 || c[0] < 'A' || c[0] > 'G' {
		return 0, ErrInvalidCode
	}
	return int(c[0] - 'A'), nil
}

// Letter converts a value in [0,6] to its letter, rounding half away
// from zero.
func Letter(v float64) (string, error) {
	if v < 0 || v > 6 {
		return "", ErrOutOfRange
	}
	return Letters[int(math.Round(v))], nil
}

// ValueLenient is Value with the legacy fallback: anything that is not
// a known code scores 0.
func ValueLenient(code string) int {
	v, err := Value(code)
	if err != nil {
		return 0
	}
	return v
}

// LetterLenient is Letter with the legacy fallback: the raw value is
// range-checked before rounding, and anything outside [0,6] comes back
// as "A". A value like 6.2 is out of range even though it would round
// to 6.
func LetterLenient(v float64) string {
	if v < 0 || v > 6 {
		return "A"
	}
	return Letters[int(math.Round(v))]
}
