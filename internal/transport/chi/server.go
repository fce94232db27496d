package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/triage-api/internal/domain"
	"github.com/kailas-cloud/triage-api/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/triage-api/internal/logger"
	healthuc "github.com/kailas-cloud/triage-api/internal/usecase/health"
	logsuc "github.com/kailas-cloud/triage-api/internal/usecase/logs"
	searchuc "github.com/kailas-cloud/triage-api/internal/usecase/search"
	statsuc "github.com/kailas-cloud/triage-api/internal/usecase/stats"
)

// ServiceName is reported by the root endpoint.
const ServiceName = "triage-api"

// Client-facing messages for upstream failures, per endpoint family.
const (
	detailLogs   = "Internal Server Error during log retrieval"
	detailSearch = "Internal Server Error during search"
	detailStats  = "Internal Server Error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, detail string) bool

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Options carries request defaults taken from configuration.
type Options struct {
	DefaultDays int
	APIKey      string
}

// Server serves the triage HTTP API.
type Server struct {
	logs          *logsuc.Service
	search        *searchuc.Service
	stats         *statsuc.Service
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	logs *logsuc.Service,
	search *searchuc.Service,
	stats *statsuc.Service,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	s := &Server{
		logs:   logs,
		search: search,
		stats:  stats,
		health: health,
		opts:   opts,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		invalidParamHandler,
	}
	return s
}

// Register mounts every route on r. Router-wide middleware must already be installed.
func (s *Server) Register(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/", s.Root)
	r.Get("/health", s.Health)
	r.Get("/ready", s.Ready)
	r.Get("/metrics", s.Metrics)

	r.Group(func(r chi.Router) {
		r.Use(APIKeyMiddleware(s.opts.APIKey, s.logger))

		r.Get("/logs/train/{train_id}", s.TrainLogs)
		r.Get("/logs/test/{test_id}", s.TestLogs)
		r.Get("/logs/file/{file_name}", s.FileLogs)

		r.Get("/search/errors", s.SearchErrors)
		r.Get("/search/pattern", s.SearchPattern)

		r.Get("/stats/files", s.FileStats)
		r.Get("/stats/trains", s.TrainStats)
		r.Get("/stats/tests", s.TestStats)
		r.Get("/stats/errors/timeline", s.ErrorTimeline)
	})
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": ServiceName})
}

// Health handles GET /health. It reports liveness only.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /ready.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// TrainLogs handles GET /logs/train/{train_id}.
func (s *Server) TrainLogs(w http.ResponseWriter, r *http.Request) {
	s.lookupLogs(w, r, request.FieldTrainID)
}

// TestLogs handles GET /logs/test/{test_id}.
func (s *Server) TestLogs(w http.ResponseWriter, r *http.Request) {
	s.lookupLogs(w, r, request.FieldTestID)
}

// FileLogs handles GET /logs/file/{file_name}.
func (s *Server) FileLogs(w http.ResponseWriter, r *http.Request) {
	s.lookupLogs(w, r, request.FieldFileName)
}

func (s *Server) lookupLogs(w http.ResponseWriter, r *http.Request, field string) {
	value, err := bindPathParam(r, field)
	if err != nil {
		s.handleDomainError(w, r, err, detailLogs)
		return
	}
	params, err := bindLookupParams(r)
	if err != nil {
		s.handleDomainError(w, r, err, detailLogs)
		return
	}

	req, err := request.NewLookup(field, value, derefString(params.Pattern),
		derefInt(params.Days, s.opts.DefaultDays), derefInt(params.Size, request.DefaultLogSize))
	if err != nil {
		s.handleDomainError(w, r, err, detailLogs)
		return
	}

	docs, err := s.logs.Fetch(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err, detailLogs)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// SearchErrors handles GET /search/errors.
func (s *Server) SearchErrors(w http.ResponseWriter, r *http.Request) {
	req, ok := s.patternRequest(w, r, request.DefaultSearchSize, detailSearch)
	if !ok {
		return
	}
	page, err := s.search.Errors(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err, detailSearch)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// SearchPattern handles GET /search/pattern.
func (s *Server) SearchPattern(w http.ResponseWriter, r *http.Request) {
	req, ok := s.patternRequest(w, r, request.DefaultSearchSize, detailSearch)
	if !ok {
		return
	}
	page, err := s.search.Pattern(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err, detailSearch)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// FileStats handles GET /stats/files.
func (s *Server) FileStats(w http.ResponseWriter, r *http.Request) {
	s.facetStats(w, r, statsuc.FacetFiles, request.DefaultFilesSize)
}

// TrainStats handles GET /stats/trains.
func (s *Server) TrainStats(w http.ResponseWriter, r *http.Request) {
	s.facetStats(w, r, statsuc.FacetTrains, request.DefaultTrainsSize)
}

// TestStats handles GET /stats/tests.
func (s *Server) TestStats(w http.ResponseWriter, r *http.Request) {
	s.facetStats(w, r, statsuc.FacetTests, request.DefaultTestsSize)
}

func (s *Server) facetStats(w http.ResponseWriter, r *http.Request, facet statsuc.Facet, defaultSize int) {
	req, ok := s.patternRequest(w, r, defaultSize, detailStats)
	if !ok {
		return
	}
	buckets, err := s.stats.Count(r.Context(), facet, &req)
	if err != nil {
		s.handleDomainError(w, r, err, detailStats)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{facet.Name: buckets})
}

// ErrorTimeline handles GET /stats/errors/timeline.
func (s *Server) ErrorTimeline(w http.ResponseWriter, r *http.Request) {
	params, err := bindTimelineParams(r)
	if err != nil {
		s.handleDomainError(w, r, err, detailStats)
		return
	}
	req, err := request.NewPattern(params.Pattern, derefInt(params.Days, request.DefaultTimelineDays), 0)
	if err != nil {
		s.handleDomainError(w, r, err, detailStats)
		return
	}

	aggs, err := s.stats.Timeline(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err, detailStats)
		return
	}
	writeJSON(w, http.StatusOK, aggs)
}

func (s *Server) patternRequest(
	w http.ResponseWriter, r *http.Request, defaultSize int, detail string,
) (request.Request, bool) {
	params, err := bindPatternParams(r)
	if err != nil {
		s.handleDomainError(w, r, err, detail)
		return request.Request{}, false
	}
	req, err := request.NewPattern(params.Pattern,
		derefInt(params.Days, s.opts.DefaultDays), derefInt(params.Size, defaultSize))
	if err != nil {
		s.handleDomainError(w, r, err, detail)
		return request.Request{}, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// invalidParamHandler answers 422 with the validation message, which never carries upstream data.
func invalidParamHandler(w http.ResponseWriter, err error, _ string) bool {
	var pe *InvalidParamFormatError
	if !errors.As(err, &pe) && !errors.Is(err, domain.ErrInvalidParam) {
		return false
	}
	writeError(w, http.StatusUnprocessableEntity, err.Error())
	return true
}

// handleDomainError maps err to a response. Anything unrecognized, upstream failures included,
// becomes 500 with the endpoint family's generic detail.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error, detail string) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err, detail) {
			log.Warn("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
			return
		}
	}
	log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, detail)
}
