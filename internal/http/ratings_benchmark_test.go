package httpserver

import (
	"fmt"
	"net/http"
	"testing"
)

func BenchmarkHandleSubmitRating(b *testing.B) {
	srv := buildTestServer(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		payload := []byte(fmt.Sprintf(`{"country_slug":"benchland","rating":4.0,"user_id":"bench-%d"}`, i))
		rec := doRequest(srv, http.MethodPost, "/api/ratings", payload)
		if rec.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

func BenchmarkHandleSummary(b *testing.B) {
	srv := buildTestServer(b)

	for i := 0; i < 20; i++ {
		payload := []byte(fmt.Sprintf(`{"country_slug":"country-%d","rating":%d}`, i%5, i%6))
		if rec := doRequest(srv, http.MethodPost, "/api/ratings", payload); rec.Code != http.StatusCreated {
			b.Fatalf("seed status %d", rec.Code)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := doRequest(srv, http.MethodGet, "/api/ratings/summary", nil)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
