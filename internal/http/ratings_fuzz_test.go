package httpserver

import (
	"net/url"
	"testing"
)

func FuzzParseLimitParam(f *testing.F) {
	seeds := []string{
		"limit=10",
		"limit=-3",
		"limit=abc",
		"limit=",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		limit, err := parseLimitParam(values)
		if err == nil && limit < 0 {
			t.Fatalf("parseLimitParam returned negative limit %d for %q", limit, raw)
		}
	})
}
