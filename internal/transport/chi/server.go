// Package chi is the HTTP boundary of the search core. Request parsing,
// identity header handling and error-to-status mapping live here; the
// orchestrator below it never sees HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/findex/internal/domain"
	"github.com/kailas-cloud/findex/internal/domain/search/filter"
	"github.com/kailas-cloud/findex/internal/domain/search/request"
	"github.com/kailas-cloud/findex/internal/domain/search/result"
	"github.com/kailas-cloud/findex/internal/logger"
	"github.com/kailas-cloud/findex/internal/metrics"
	"github.com/kailas-cloud/findex/internal/usecase/visibility"
)

// Searcher is the orchestrator contract the server depends on.
type Searcher interface {
	Search(
		ctx context.Context, req *request.Request, auth visibility.Context,
	) (result.Page, error)
}

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the search API over HTTP.
type Server struct {
	search Searcher
	health Pinger
	logger *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(search Searcher, health Pinger, logger *zap.Logger) *Server {
	return &Server{search: search, health: health, logger: logger}
}

// Router builds the chi router with logging and metrics middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/v1/search", s.handleSearch)

	return r
}

// requestLogger stores a request-scoped logger carrying the chi request id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := s.logger
		if reqID := chiMiddleware.GetReqID(r.Context()); reqID != "" {
			l = l.With(zap.String("request_id", reqID))
		}
		next.ServeHTTP(w, r.WithContext(logger.ContextWithLogger(r.Context(), l)))
	})
}

// searchBody mirrors the public SearchRequest shape.
type searchBody struct {
	Query   string `json:"query"`
	Filters *struct {
		ContentTypes []string `json:"content_types,omitempty"`
		Tags         []string `json:"tags,omitempty"`
		Badges       []string `json:"badges,omitempty"`
		DateRange    *struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		} `json:"date_range,omitempty"`
		Visibility []string `json:"visibility,omitempty"`
	} `json:"filters,omitempty"`
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	req, err := parseRequest(&body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	page, err := s.search.Search(r.Context(), req, identityFromHeaders(r))
	if err != nil {
		writeSearchError(logger.FromContext(r.Context()), w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "unhealthy", "backend unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseRequest(body *searchBody) (*request.Request, error) {
	var (
		contentTypes, tags, badges []string
		dateRange                  filter.DateRange
		tiers                      []domain.Tier
	)
	if body.Filters != nil {
		contentTypes = body.Filters.ContentTypes
		tags = body.Filters.Tags
		badges = body.Filters.Badges
		if body.Filters.DateRange != nil {
			dateRange = filter.DateRange{
				From: body.Filters.DateRange.Start,
				To:   body.Filters.DateRange.End,
			}
		}
		for _, v := range body.Filters.Visibility {
			tiers = append(tiers, domain.Tier(v))
		}
	}

	filters, err := filter.New(contentTypes, tags, badges, dateRange, tiers)
	if err != nil {
		return nil, err
	}

	req, err := request.New(body.Query, filters, body.Limit, body.Offset)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// writeSearchError maps domain errors onto HTTP statuses.
func writeSearchError(l *zap.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrThrottled), errors.Is(err, domain.ErrEmbeddingProvider):
		l.Error("Embedding failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, "embedding_failed", "embedding backend unavailable")
	case errors.Is(err, domain.ErrBackend):
		l.Error("Retrieval backend failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, "backend_failed", "retrieval backend unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusRequestTimeout, "canceled", "request canceled")
	default:
		l.Error("Search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
