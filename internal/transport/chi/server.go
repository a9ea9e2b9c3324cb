// Package chi is the HTTP transport of the directory API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/houston-ecosystem/ecomap/internal/domain"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/request"
	healthuc "github.com/houston-ecosystem/ecomap/internal/usecase/health"
	"github.com/houston-ecosystem/ecomap/internal/version"
)

// DefaultRequestTimeout bounds search and list handlers when no timeout is configured.
const DefaultRequestTimeout = 5 * time.Second

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the directory API.
type Server struct {
	search         Searcher
	catalog        Catalog
	health         HealthChecker
	logger         *zap.Logger
	requestTimeout time.Duration
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, catalog Catalog, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search:         search,
		catalog:        catalog,
		health:         health,
		logger:         logger,
		requestTimeout: DefaultRequestTimeout,
	}
	// Order matters: a circuit-open fetch is also an upstream failure.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrCircuitOpen, http.StatusServiceUnavailable, ErrorCodeCircuitOpen),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, ErrorCodeTimeout),
		sentinelHandler(domain.ErrUpstreamUnavailable, http.StatusBadGateway, ErrorCodeUpstreamUnavailable),
		sentinelHandler(domain.ErrUnknownKind, http.StatusNotFound, ErrorCodeNotFound),
	}
	return s
}

// WithRequestTimeout overrides the per-request deadline of search and list handlers.
func (s *Server) WithRequestTimeout(d time.Duration) *Server {
	if d > 0 {
		s.requestTimeout = d
	}
	return s
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req := searchRequestFromQuery(r)

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	page, err := s.search.Search(ctx, &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFromPage(&page))
}

// ListEntities handles GET /api/v1/{kind} for firms, startups and communities.
func (s *Server) ListEntities(w http.ResponseWriter, r *http.Request) {
	plural := gochi.URLParam(r, "kind")
	kind, ok := kindFromPlural(plural)
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "unknown collection "+plural)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	list, err := s.catalog.List(ctx, kind)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, featureCollection(list))
}

// HealthCheck handles GET /health. A degraded cache still serves traffic.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

// Version handles GET /version.
func (s *Server) Version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: version.Version,
		Commit:  version.Commit,
		Date:    version.Date,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// searchRequestFromQuery binds q, tags, page and limit. Tags may be repeated
// and comma-separated; unparsable page or limit fall back to defaults.
func searchRequestFromQuery(r *http.Request) request.Request {
	params := r.URL.Query()

	var q *string
	_ = runtime.BindQueryParameter("form", true, false, "q", params, &q)

	var rawTags *[]string
	_ = runtime.BindQueryParameter("form", true, false, "tags", params, &rawTags)

	var opts []request.Option
	var page *int
	if err := runtime.BindQueryParameter("form", true, false, "page", params, &page); err == nil && page != nil {
		opts = append(opts, request.WithPage(*page))
	}
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", params, &limit); err == nil && limit != nil {
		opts = append(opts, request.WithLimit(*limit))
	}

	query := ""
	if q != nil {
		query = *q
	}
	var tags []string
	if rawTags != nil {
		tags = splitTags(*rawTags)
	}
	return request.New(query, tags, opts...)
}

func splitTags(raw []string) []string {
	var tags []string
	for _, v := range raw {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
func safeDomainMessage(err error) string {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrCircuitOpen) {
		return domain.ErrUpstreamUnavailable.Error() + ": " + upstream.Kind
	}
	sentinels := []error{
		domain.ErrCircuitOpen,
		context.DeadlineExceeded,
		domain.ErrUpstreamUnavailable,
		domain.ErrUnknownKind,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
