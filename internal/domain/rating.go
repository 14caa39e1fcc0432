package domain

import (
	"fmt"
	"math"
	"strings"
)

// RatingSubmission is a single incoming country rating. UserID and Comment
// are optional; a nil pointer means the field was not provided, which is
// distinct from an explicitly empty string.
type RatingSubmission struct {
	CountrySlug string
	Rating      float64
	UserID      *string
	Comment     *string
}

// CountryStats holds the aggregate rating statistics for one country. Avg is
// the mean rating rounded to 3 decimal places, and is 0 when Count is 0.
type CountryStats struct {
	CountrySlug string
	Count       int64
	Avg         float64
}

// ValidationError reports a submission field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NormalizeSlug trims surrounding whitespace and lowercases a raw slug.
// Normalization always happens before validation.
func NormalizeSlug(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ValidSlug reports whether a normalized slug is non-empty and contains only
// lowercase ASCII alphanumerics and hyphens.
func ValidSlug(slug string) bool {
	if slug == "" {
		return false
	}
	for _, r := range slug {
		if r != '-' && (r < '0' || r > '9') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// ValidateSubmission normalizes and validates a rating submission. It is a
// pure function: on success it returns the submission with the slug
// normalized, otherwise a *ValidationError naming the offending field.
// Optional fields pass through untouched.
func ValidateSubmission(sub RatingSubmission) (RatingSubmission, error) {
	slug := NormalizeSlug(sub.CountrySlug)
	if !ValidSlug(slug) {
		return RatingSubmission{}, &ValidationError{
			Field:   "country_slug",
			Message: "must be kebab-case: lowercase alphanumerics and hyphens",
		}
	}

	if math.IsNaN(sub.Rating) || math.IsInf(sub.Rating, 0) {
		return RatingSubmission{}, &ValidationError{
			Field:   "rating",
			Message: "must be a finite number",
		}
	}
	if sub.Rating < 0 || sub.Rating > 5 {
		return RatingSubmission{}, &ValidationError{
			Field:   "rating",
			Message: "must be between 0 and 5",
		}
	}

	sub.CountrySlug = slug
	return sub, nil
}
