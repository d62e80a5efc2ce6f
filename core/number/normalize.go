// Package number normalizes dialed numbers and pricelist prefixes.
//
// Normalization keeps ASCII digits only, so "(123)456-7890", "123-456-7890"
// and "1234567890" all map to the same key.
package number

import "strings"

// Normalize removes every character that is not an ASCII digit
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// DialNumber is a normalized dial number together with the prefixes
// that are matched against pricelists.
type DialNumber struct {
	digits   string
	prefixes []string
}

// NewDialNumber normalizes raw and derives its candidate prefixes.
// Candidates are the strict leading substrings, longest first; the full
// number is never a candidate.
func NewDialNumber(raw string) DialNumber {
	digits := Normalize(raw)

	var prefixes []string
	for l := len(digits) - 1; l >= 1; l-- {
		prefixes = append(prefixes, digits[:l])
	}

	return DialNumber{
		digits:   digits,
		prefixes: prefixes,
	}
}

// Digits returns the normalized number
func (d DialNumber) Digits() string {
	return d.digits
}

// Prefixes returns a copy of the candidate prefixes, longest first
func (d DialNumber) Prefixes() []string {
	out := make([]string, len(d.prefixes))
	copy(out, d.prefixes)
	return out
}

// IsEmpty reports whether the number has no candidate prefixes
func (d DialNumber) IsEmpty() bool {
	return len(d.prefixes) == 0
}

// Match walks candidates from longest to shortest and returns the first
// one accepted by has.
func (d DialNumber) Match(has func(prefix string) bool) (string, bool) {
	for _, p := range d.prefixes {
		if has(p) {
			return p, true
		}
	}
	return "", false
}
