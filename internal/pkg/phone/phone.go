// Package phone normalizes raw phone numbers into canonical dialable strings.
// The canonical form (dialing prefix + cleaned local digits) is the unique
// key for all verification state.
package phone

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dating-api/internal/domain"
)

// Country is a supported dialing region.
type Country struct {
	Code   string `json:"code"`   // ISO code, e.g. "AT"
	Prefix string `json:"prefix"` // international dialing prefix, e.g. "+43"
	Name   string `json:"name"`
}

// allowedCountries is the closed set of supported dialing regions.
var allowedCountries = map[string]Country{
	"DE": {Code: "DE", Prefix: "+49", Name: "Deutschland"},
	"AT": {Code: "AT", Prefix: "+43", Name: "Österreich"},
	"CH": {Code: "CH", Prefix: "+41", Name: "Schweiz"},
}

var digitsRe = regexp.MustCompile(`^\d{6,15}$`)

// Normalize canonicalizes a raw phone number within a supported country.
// It strips whitespace and hyphens, requires 6–15 digits, and returns the
// dialing prefix concatenated with the cleaned local part. Pure and
// deterministic; errors wrap domain.ErrValidation.
func Normalize(rawNumber, countryCode string) (string, error) {
	country, ok := allowedCountries[countryCode]
	if !ok {
		return "", fmt.Errorf("country %s is not supported: %w", countryCode, domain.ErrValidation)
	}
	clean := strings.NewReplacer(" ", "", "-", "", "\t", "").Replace(rawNumber)
	// A number already carrying the country's prefix is accepted as-is.
	clean = strings.TrimPrefix(clean, country.Prefix)
	if !digitsRe.MatchString(clean) {
		return "", fmt.Errorf("invalid phone number format: %w", domain.ErrValidation)
	}
	return country.Prefix + clean, nil
}

// Countries returns the supported dialing regions.
func Countries() []Country {
	return []Country{
		allowedCountries["DE"],
		allowedCountries["AT"],
		allowedCountries["CH"],
	}
}
