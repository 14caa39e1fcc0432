package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/country-pulse/country-ratings/internal/domain"
	"github.com/country-pulse/country-ratings/internal/repository"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type ratingSubmitRequest struct {
	CountrySlug string   `json:"country_slug"`
	Rating      *float64 `json:"rating"`
	UserID      *string  `json:"user_id"`
	Comment     *string  `json:"comment"`
}

type ratingCreateResponse struct {
	ID string `json:"id"`
	OK bool   `json:"ok"`
}

type countryStatsResponse struct {
	CountrySlug string  `json:"country_slug"`
	Count       int64   `json:"count"`
	Avg         float64 `json:"avg"`
}

type statusResponse struct {
	Service  string             `json:"service"`
	Database string             `json:"database"`
	Pool     *poolStatsResponse `json:"pool,omitempty"`
}

type poolStatsResponse struct {
	TotalConns    int32 `json:"totalConns"`
	IdleConns     int32 `json:"idleConns"`
	AcquiredConns int32 `json:"acquiredConns"`
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	var req ratingSubmitRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Rating == nil {
		s.respondValidationError(w, &domain.ValidationError{Field: "rating", Message: "is required"})
		return
	}

	sub, err := domain.ValidateSubmission(domain.RatingSubmission{
		CountrySlug: req.CountrySlug,
		Rating:      *req.Rating,
		UserID:      req.UserID,
		Comment:     req.Comment,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.respondValidationError(w, verr)
			return
		}
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process rating")
		return
	}

	id, err := s.repo.Ratings.Insert(r.Context(), sub)
	if err != nil {
		s.logger.Printf("insert rating error: %v", err)
		s.respondStorageError(w, err, "Failed to store rating")
		return
	}

	s.respondJSON(w, http.StatusCreated, ratingCreateResponse{ID: id, OK: true})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimitParam(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	stats, err := s.repo.Ratings.StatsAll(r.Context(), limit)
	if err != nil {
		s.logger.Printf("stats summary error: %v", err)
		s.respondStorageError(w, err, "Failed to aggregate ratings")
		return
	}

	items := make([]countryStatsResponse, 0, len(stats))
	for _, cs := range stats {
		items = append(items, toCountryStatsResponse(cs))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCountryStats(w http.ResponseWriter, r *http.Request) {
	slug, err := decodeSlugParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	slug = domain.NormalizeSlug(slug)
	if !domain.ValidSlug(slug) {
		s.respondValidationError(w, &domain.ValidationError{
			Field:   "country_slug",
			Message: "must be kebab-case: lowercase alphanumerics and hyphens",
		})
		return
	}

	stats, err := s.repo.Ratings.StatsBySlug(r.Context(), slug)
	if err != nil {
		s.logger.Printf("stats for %s error: %v", slug, err)
		s.respondStorageError(w, err, "Failed to aggregate ratings")
		return
	}

	s.respondJSON(w, http.StatusOK, toCountryStatsResponse(stats))
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Hello from the backend API!"})
}

// handleStatus reports process and database health, including pool counters
// when a store is configured.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := statusResponse{Service: "country-ratings", Database: "unreachable"}
	if err := s.store.HealthCheck(ctx); err == nil {
		resp.Database = "connected"
	}
	if stat := s.store.Stats(); stat != nil {
		resp.Pool = &poolStatsResponse{
			TotalConns:    stat.TotalConns(),
			IdleConns:     stat.IdleConns(),
			AcquiredConns: stat.AcquiredConns(),
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// parseLimitParam extracts the optional limit query parameter. Any integer is
// accepted; values below one mean "no truncation" and are normalized to zero.
func parseLimitParam(query url.Values) (int, error) {
	val := strings.TrimSpace(query.Get("limit"))
	if val == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid limit value")
	}
	if limit < 0 {
		limit = 0
	}
	return limit, nil
}

func decodeSlugParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "slug")
	if raw == "" {
		return "", fmt.Errorf("missing slug parameter")
	}
	slug, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid slug parameter")
	}
	return slug, nil
}

func toCountryStatsResponse(cs domain.CountryStats) countryStatsResponse {
	return countryStatsResponse{
		CountrySlug: cs.CountrySlug,
		Count:       cs.Count,
		Avg:         cs.Avg,
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondValidationError(w http.ResponseWriter, verr *domain.ValidationError) {
	s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("%s %s", verr.Field, verr.Message),
		Details: map[string]string{"field": verr.Field},
	})
}

func (s *Server) respondStorageError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, repository.ErrStorageUnavailable):
		s.respondError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage is temporarily unavailable")
	case errors.Is(err, repository.ErrAggregationFailure):
		s.respondError(w, http.StatusInternalServerError, "AGGREGATION_FAILED", message)
	default:
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
	}
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}
