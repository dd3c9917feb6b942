// Package phone validates international phone numbers and normalizes them to E.164.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	ErrRequired = errors.New("phone number is required")
	ErrInvalid  = errors.New("invalid phone number format")
)

// Normalize parses raw as an international number ("+" and country code) and
// returns its E.164 form. Numbers that parse but are not assigned in any
// region are rejected.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrRequired
	}
	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return "", ErrInvalid
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalid
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
