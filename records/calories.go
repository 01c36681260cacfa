package records

import (
	"errors"
	"math"
	"strings"
)

var ErrInvalidCalories = errors.New("invalid calories: must start with a non-negative integer")

// ParseCalories reads the leading integer of text: surrounding spaces and a
// '+' sign are allowed and anything after the digits is ignored ("12.7" is 12,
// "150kcal" is 150). Empty input, no leading digit, a '-' sign or an overflow
// are rejected with ErrInvalidCalories.
func ParseCalories(text string) (int, error) {

	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "+")

	n := 0
	digits := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		d := int(c - '0')
		if n > (math.MaxInt-d)/10 {
			return 0, ErrInvalidCalories
		}
		n = n*10 + d
		digits++
	}

	if digits == 0 {
		return 0, ErrInvalidCalories
	}

	return n, nil
}
