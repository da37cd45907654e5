package postcode

import (
	"regexp"
	"strings"

	"github.com/dearpower/dearpower-go/internal/util"
)

var (
	postcodePattern = regexp.MustCompile(`(?i)^[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}$`)
	embeddedPattern = regexp.MustCompile(`(?i)\b[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}\b`)
)

// Validate reports whether raw is a syntactically valid UK postcode. Surrounding
// whitespace is ignored; inner whitespace is at most one space.
func Validate(raw string) bool {
	return postcodePattern.MatchString(strings.TrimSpace(raw))
}

// Normalize upper-cases raw and collapses whitespace runs to a single space.
func Normalize(raw string) string {
	return strings.ToUpper(util.CollapseSpaces(raw))
}

// Extract finds a postcode inside a free-form address. UK addresses end with the
// postcode, so the last match wins.
func Extract(address string) (string, bool) {
	matches := embeddedPattern.FindAllString(util.CollapseSpaces(address), -1)
	if len(matches) == 0 {
		return "", false
	}
	return Normalize(matches[len(matches)-1]), true
}

// FromInput turns a postcode or an address into a normalised postcode.
func FromInput(addressOrPostcode string) (string, bool) {
	normalized := Normalize(addressOrPostcode)
	if normalized == "" {
		return "", false
	}
	if Validate(normalized) {
		return normalized, true
	}
	return Extract(normalized)
}
