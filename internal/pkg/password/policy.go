// Package password holds the account password strength policy.
package password

import (
	"strings"
	"unicode/utf8"
)

// MinLength is the minimum number of characters in an accepted password.
const MinLength = 8

// MaxBytes is the longest password bcrypt will hash.
const MaxBytes = 72

// Symbols lists the characters that satisfy the symbol rule.
const Symbols = `!@#$%^&*(),.?":{}|<>`

// Violations returns one message per policy rule the password breaks, in a stable order.
func Violations(pw string) []string {
	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(Symbols, r):
			hasSymbol = true
		}
	}
	var out []string
	if utf8.RuneCountInString(pw) < MinLength {
		out = append(out, "Password must be at least 8 characters")
	}
	if len(pw) > MaxBytes {
		out = append(out, "Password must be at most 72 bytes")
	}
	if !hasUpper {
		out = append(out, "Password must contain at least one uppercase letter")
	}
	if !hasDigit {
		out = append(out, "Password must contain at least one number")
	}
	if !hasSymbol {
		out = append(out, "Password must contain at least one special character")
	}
	return out
}
