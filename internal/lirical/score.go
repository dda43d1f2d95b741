package lirical

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ScoreError reports a compositeLR value that cannot be read as a number.
type ScoreError struct {
	Value string
}

func (e *ScoreError) Error() string {
	return fmt.Sprintf("cannot coerce score %q to a number", e.Value)
}

// ParseScore converts a compositeLR value to a float.
// Values such as "4.203" parse directly; values with a trailing non-numeric
// suffix ("4.203*", "65.60%") are parsed from their longest numeric prefix.
func ParseScore(s string) (float64, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		prefix := numericPrefix(s)
		if prefix == "" {
			return 0, &ScoreError{Value: s}
		}
		f, err = strconv.ParseFloat(prefix, 64)
		if err != nil {
			return 0, &ScoreError{Value: s}
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &ScoreError{Value: s}
	}
	return f, nil
}

// numericPrefix returns the longest prefix of s of the form
// [+-]digits[.digits][(e|E)[+-]digits], or "" if s has no leading digits.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			end = j
		}
	}
	return s[:end]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
