package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordsStatusAndPattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Metrics)
	router.Get("/api/ratings/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	before := testCounterValue(t, "GET", "/api/ratings/{slug}", "200")

	req := httptest.NewRequest(http.MethodGet, "/api/ratings/norway", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	after := testCounterValue(t, "GET", "/api/ratings/{slug}", "200")
	assert.Equal(t, before+1, after)
}

func TestMetrics_DefaultsStatusTo200(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Metrics)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok")) // implicit 200, WriteHeader never called
	})

	before := testCounterValue(t, "GET", "/healthz", "200")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	after := testCounterValue(t, "GET", "/healthz", "200")
	assert.Equal(t, before+1, after)
}

func testCounterValue(t *testing.T, method, path, status string) float64 {
	t.Helper()
	counter, err := httpRequestsTotal.GetMetricWithLabelValues(method, path, status)
	if err != nil {
		t.Fatalf("get counter: %v", err)
	}
	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}
