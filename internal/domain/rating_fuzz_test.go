package domain

import (
	"errors"
	"testing"
)

func FuzzValidateSubmission(f *testing.F) {
	seeds := []struct {
		slug   string
		rating float64
	}{
		{"united-states", 4.5},
		{"  Norway ", 0},
		{"united_states", 3},
		{"", 2},
		{"côte-d-ivoire", 5},
		{"ok", -1},
	}
	for _, seed := range seeds {
		f.Add(seed.slug, seed.rating)
	}

	f.Fuzz(func(t *testing.T, slug string, rating float64) {
		out, err := ValidateSubmission(RatingSubmission{CountrySlug: slug, Rating: rating})
		if err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error is not a *ValidationError: %v", err)
			}
			if verr.Field != "country_slug" && verr.Field != "rating" {
				t.Fatalf("unexpected field %q", verr.Field)
			}
			return
		}

		if !ValidSlug(out.CountrySlug) {
			t.Fatalf("accepted submission has invalid slug %q", out.CountrySlug)
		}
		if out.Rating < 0 || out.Rating > 5 {
			t.Fatalf("accepted submission has out-of-range rating %v", out.Rating)
		}

		again, err := ValidateSubmission(out)
		if err != nil {
			t.Fatalf("re-validation of normalized output failed: %v", err)
		}
		if again != out {
			t.Fatalf("validation is not idempotent: %+v != %+v", again, out)
		}
	})
}
