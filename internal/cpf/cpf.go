// Package cpf validates Brazilian CPF tax identifiers.
package cpf

import "strings"

// Normalize strips formatting (dots, dashes, spaces) and returns the bare
// digit string.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValid reports whether s is a well-formed CPF: 11 digits, not all equal,
// with both verification digits matching the mod-11 checksum.
func IsValid(s string) bool {
	c := Normalize(s)
	if len(c) != 11 {
		return false
	}
	allEqual := true
	for i := 1; i < 11; i++ {
		if c[i] != c[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}
	if digit(c, 9, 10) != int(c[9]-'0') {
		return false
	}
	return digit(c, 10, 11) == int(c[10]-'0')
}

// digit computes the verification digit over the first n digits of c, with
// weights starting at w and descending.
func digit(c string, n, w int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(c[i]-'0') * (w - i)
	}
	r := (sum * 10) % 11
	if r == 10 || r == 11 {
		r = 0
	}
	return r
}
