// Package phone validates and canonicalizes Kenyan phone numbers into
// E.164 form (+254XXXXXXXXX).
//
// One policy is applied uniformly across customer records and SMS sending:
// strip every non-digit character, then accept 0XXXXXXXXX (local),
// 254XXXXXXXXX (international without plus) and 7XXXXXXXX (bare national
// number). A number that is already normalized reduces to the 254 case, so
// Normalize is idempotent.
package phone

import (
	"errors"
	"strings"
)

// ErrInvalidPhone is returned when a number cannot be normalized.
var ErrInvalidPhone = errors.New("invalid phone number")

const countryCode = "254"

// Normalize returns the E.164 form of raw, or ErrInvalidPhone.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, c := range raw {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10 && strings.HasPrefix(digits, "0"):
		return "+" + countryCode + digits[1:], nil
	case len(digits) == 12 && strings.HasPrefix(digits, countryCode):
		return "+" + digits, nil
	case len(digits) == 9 && strings.HasPrefix(digits, "7"):
		return "+" + countryCode + digits, nil
	default:
		return "", ErrInvalidPhone
	}
}

// IsValid reports whether raw can be normalized.
func IsValid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}
