package services

import (
	"regexp"
	"strings"
)

var (
	phoneSeparators = regexp.MustCompile(`[-\s\p{Z}]`)
	// Pakistani mobile: 03 followed by an operator digit 0-4, 11 digits in total
	pakistaniMobile = regexp.MustCompile(`^03[0-4]\d{8}$`)
)

// NormalizePhone strips hyphens and whitespace, Unicode spaces included, from a phone number
func NormalizePhone(raw string) string {
	return phoneSeparators.ReplaceAllString(raw, "")
}

// IsValidPhone reports whether an already normalized number is a Pakistani mobile
func IsValidPhone(phone string) bool {
	return pakistaniMobile.MatchString(phone)
}

// ParsePhone normalizes raw input and validates it.
func ParsePhone(raw string) (string, bool) {
	clean := NormalizePhone(raw)
	if !IsValidPhone(clean) {
		return "", false
	}
	return clean, true
}

// ParseName accepts any non-empty trimmed string as the full name
func ParseName(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	return name, name != ""
}

// ParseOptional handles the email and address steps.
// "skip" in any ASCII case stores nothing, and so does an empty answer.
// Anything else, including "skip" spelled with non-ASCII letters, is kept verbatim.
func ParseOptional(raw string) *string {
	value := strings.TrimSpace(raw)
	if value == "" || strings.ToLower(value) == "skip" {
		return nil
	}
	return &value
}
