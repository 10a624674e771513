package registry

import (
	"fmt"
	"strings"
)

// SanitizeDate expands a YYYY or YYYY-MM date to YYYY-MM-DD, defaulting the
// missing parts to 01. Three-part dates are returned unchanged; the calendar
// is not checked.
func SanitizeDate(date string) (string, error) {
	parts := strings.Split(date, "-")

	switch len(parts) {
	case 3:
		return date, nil
	case 2:
		return parts[0] + "-" + parts[1] + "-01", nil
	case 1:
		return parts[0] + "-01-01", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
}

// SanitizeCategory replaces every comma, which Notion treats as an option
// separator in multi-select values.
func SanitizeCategory(category string) string {
	return strings.ReplaceAll(category, ",", "-")
}

func sanitizeCategories(categories []string) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = SanitizeCategory(c)
	}
	return out
}
