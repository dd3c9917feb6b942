package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
)

const (
	otpMin  = 100000
	otpSpan = 900000 // codes fall in [100000, 999999]
)

var otpPattern = regexp.MustCompile(`^\d{6}$`)

// NewOTP returns a uniformly random six-digit decimal code.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", otpMin+n.Int64()), nil
}

// IsOTPFormat reports whether s is exactly six ASCII digits.
func IsOTPFormat(s string) bool {
	return otpPattern.MatchString(s)
}

// NewVerificationToken generates a cryptographically random 64-character hex token.
func NewVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Equal compares two secrets in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
