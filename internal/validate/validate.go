// Package validate holds the pure input checks applied before payment
// intake. No network lookups: email shape and card digit count only.
package validate

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// Email reports whether s has a conventional local@domain.tld shape.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// CardNumber strips all non-digit characters and accepts a remaining
// length of 13 to 19 digits inclusive. No Luhn check, no brand detection.
func CardNumber(s string) bool {
	digits := nonDigit.ReplaceAllString(s, "")
	return len(digits) >= 13 && len(digits) <= 19
}

// CardDigits returns only the digit characters of a card number.
func CardDigits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}
