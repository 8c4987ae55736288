// Package phone derives the canonical contact key from raw phone strings.
package phone

import "strings"

// KeyLength is the number of digits in a valid key.
const KeyLength = 10

// Normalize strips every non-digit and keeps the last ten digits, so
// "+1 (901) 555-1234" and "9015551234" yield the same key. Inputs with
// fewer digits pass through shortened, and callers must check Valid.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > KeyLength {
		return digits[len(digits)-KeyLength:]
	}
	return digits
}

// Valid reports whether key is a full ten-digit key.
func Valid(key string) bool {
	return len(key) == KeyLength
}

// Format renders a display value: (XXX) XXX-XXXX for a valid key, the
// normalized digits otherwise.
func Format(raw string) string {
	d := Normalize(raw)
	if !Valid(d) {
		return d
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}

// Key normalizes raw and reports whether the result is valid.
func Key(raw string) (string, bool) {
	k := Normalize(raw)
	return k, Valid(k)
}
