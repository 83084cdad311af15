// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	cleaned := strings.TrimPrefix(strings.TrimSpace(phone), "+")
	cleaned = nonDigits.ReplaceAllString(cleaned, "")

	// 7-15 digits, no leading zero (E.164)
	regex := `^[1-9]\d{6,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

// FormatPhoneNumber normalizes a phone number to E.164.
// Bare 10-digit numbers get the +91 country code.
func FormatPhoneNumber(phone string) string {
	cleaned := nonDigits.ReplaceAllString(phone, "")

	switch {
	case len(cleaned) == 10:
		return "+91" + cleaned
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "91"):
		return "+" + cleaned
	case strings.HasPrefix(strings.TrimSpace(phone), "+"):
		return "+" + cleaned
	}
	return phone
}
