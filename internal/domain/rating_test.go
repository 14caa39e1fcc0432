package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateSubmission_NormalizesSlug(t *testing.T) {
	sub, err := ValidateSubmission(RatingSubmission{
		CountrySlug: "  United-States ",
		Rating:      4.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "united-states", sub.CountrySlug)
	assert.Equal(t, 4.5, sub.Rating)
}

func TestValidateSubmission_Idempotent(t *testing.T) {
	first, err := ValidateSubmission(RatingSubmission{
		CountrySlug: "\tNew-Zealand\n",
		Rating:      3.2,
		UserID:      strPtr("u-1"),
	})
	require.NoError(t, err)

	second, err := ValidateSubmission(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateSubmission_SlugErrors(t *testing.T) {
	tests := []struct {
		name string
		slug string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"underscore", "united_states"},
		{"space inside", "united states"},
		{"non-ascii letter", "côte-d-ivoire"},
		{"punctuation", "norway!"},
		{"uppercase after normalization is fine, symbol is not", "USA$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSubmission(RatingSubmission{CountrySlug: tt.slug, Rating: 3})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "country_slug", verr.Field)
		})
	}
}

func TestValidateSubmission_RatingRange(t *testing.T) {
	for _, rating := range []float64{0, 5, 2.5} {
		_, err := ValidateSubmission(RatingSubmission{CountrySlug: "norway", Rating: rating})
		assert.NoError(t, err, "rating %v should be accepted", rating)
	}

	for _, rating := range []float64{-0.1, 5.1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ValidateSubmission(RatingSubmission{CountrySlug: "norway", Rating: rating})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "rating %v should be rejected", rating)
		assert.Equal(t, "rating", verr.Field)
	}
}

func TestValidateSubmission_OptionalFieldsPassThrough(t *testing.T) {
	sub, err := ValidateSubmission(RatingSubmission{CountrySlug: "norway", Rating: 4})
	require.NoError(t, err)
	assert.Nil(t, sub.UserID)
	assert.Nil(t, sub.Comment)

	// An explicitly empty string is not the same as "not provided".
	sub, err = ValidateSubmission(RatingSubmission{
		CountrySlug: "norway",
		Rating:      4,
		UserID:      strPtr(""),
		Comment:     strPtr("lovely fjords"),
	})
	require.NoError(t, err)
	require.NotNil(t, sub.UserID)
	assert.Equal(t, "", *sub.UserID)
	require.NotNil(t, sub.Comment)
	assert.Equal(t, "lovely fjords", *sub.Comment)
}

func TestValidSlug(t *testing.T) {
	valid := []string{"norway", "united-states", "a", "42", "kebab-case-123"}
	for _, slug := range valid {
		assert.True(t, ValidSlug(slug), "slug %q should be valid", slug)
	}

	invalid := []string{"", "Norway", "united states", "a_b", "emoji-\U0001f30d"}
	for _, slug := range invalid {
		assert.False(t, ValidSlug(slug), "slug %q should be invalid", slug)
	}
}
