package types

import (
	"math"
	"strings"
)

// LeadingInt parses the leading integer of s the way lenient form inputs are
// read: surrounding whitespace is ignored, an optional sign is accepted, and
// parsing stops at the first non-digit ("30d" is 30). ok is false when s has
// no leading digits.
func LeadingInt(s string) (n int, ok bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		if n >= math.MaxInt32/10 {
			// Saturate instead of overflowing on absurd input.
			n = math.MaxInt32
		} else {
			n = n*10 + int(r-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// PositiveInt returns the leading integer of s if it is at least 1, otherwise def.
func PositiveInt(s string, def int) int {
	if n, ok := LeadingInt(s); ok && n >= 1 {
		return n
	}
	return def
}
