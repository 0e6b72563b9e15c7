package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	leadqualification "leadqualifier/contexts/sales-intelligence/lead-qualification-service"
	leaderrors "leadqualifier/contexts/sales-intelligence/lead-qualification-service/domain/errors"
	leadhttp "leadqualifier/contexts/sales-intelligence/lead-qualification-service/transport/http"
	_ "leadqualifier/internal/platform/httpserver/docs"
	"leadqualifier/internal/platform/metrics"

	httpSwagger "github.com/swaggo/http-swagger"
)

const maxEventBodyBytes = 1 << 20

type Options struct {
	// CORSAllowedOrigins lists allowed origins; "*" allows any.
	CORSAllowedOrigins []string
	// Metrics is optional; nil disables /metrics and request instrumentation.
	Metrics *metrics.Registry
	Tracing bool
}

type Server struct {
	mux     *http.ServeMux
	handler http.Handler
	logger  *slog.Logger
	addr    string
	leads   leadqualification.Module
	metrics *metrics.Registry
	http    *http.Server
}

func New(
	leads leadqualification.Module,
	logger *slog.Logger,
	addr string,
	opts Options,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8000"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		leads:   leads,
		metrics: opts.Metrics,
	}
	s.registerRoutes()
	s.handler = s.middleware(s.mux, opts)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed mux wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /api/leads", s.handleListLeads)
	s.mux.HandleFunc("GET /api/leads/{lead_id}", s.handleGetLead)
	s.mux.HandleFunc("POST /api/events", s.handleRecordEvent)

	s.mux.HandleFunc("GET /api/analytics/usage", s.handleUsageReport)
	s.mux.HandleFunc("GET /api/analytics/leads", s.handleLeadReport)
	s.mux.HandleFunc("GET /api/analytics/industries/top", s.handleTopIndustries)
	s.mux.HandleFunc("GET /api/analytics/views", s.handleViewPreference)
	s.mux.HandleFunc("GET /api/analytics/queries", s.handleCustomQueries)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.leads.Handler.RootHandler(r.Context()))
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := leadhttp.ListLeadsRequest{
		Industry: strings.TrimSpace(query.Get("industry")),
	}
	if sizeRaw := strings.TrimSpace(query.Get("size")); sizeRaw != "" {
		size, err := strconv.Atoi(sizeRaw)
		if err != nil || size < 0 {
			writeLeadError(w, http.StatusBadRequest, "invalid_filter", "size must be a non-negative integer")
			return
		}
		req.Size = size
	}

	resp, err := s.leads.Handler.ListLeadsHandler(r.Context(), req)
	if err != nil {
		s.writeLeadDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	resp, err := s.leads.Handler.GetLeadHandler(r.Context(), r.PathValue("lead_id"))
	if err != nil {
		s.writeLeadDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordEvent(w http.ResponseWriter, r *http.Request) {
	var req leadhttp.EventRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		writeLeadError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.leads.Handler.RecordEventHandler(r.Context(), req)
	if err != nil {
		s.writeLeadDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUsageReport(w http.ResponseWriter, r *http.Request) {
	req, ok := parseReportWindow(w, r)
	if !ok {
		return
	}
	resp, err := s.leads.Handler.UsageReportHandler(r.Context(), req)
	if err != nil {
		s.writeLeadDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeadReport(w http.ResponseWriter, r *http.Request) {
	resp, err := s.leads.Handler.LeadReportHandler(r.Context())
	if err != nil {
		s.writeLeadDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTopIndustries(w http.ResponseWriter, r *http.Request) {
	req, ok := parseReportWindow(w, r)
	if !ok {
		return
	}
	resp, err := s.leads.Handler.TopIndustriesHandler(r.Context(), req)
	if err != nil {
		s.writeLeadDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleViewPreference(w http.ResponseWriter, r *http.Request) {
	resp, err := s.leads.Handler.ViewPreferenceHandler(r.Context())
	if err != nil {
		s.writeLeadDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCustomQueries(w http.ResponseWriter, r *http.Request) {
	resp, err := s.leads.Handler.CustomQueriesHandler(r.Context())
	if err != nil {
		s.writeLeadDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseReportWindow(w http.ResponseWriter, r *http.Request) (leadhttp.ReportWindowRequest, bool) {
	query := r.URL.Query()
	var req leadhttp.ReportWindowRequest
	for _, param := range []struct {
		name   string
		target *int
	}{
		{"days", &req.Days},
		{"limit", &req.Limit},
	} {
		raw := strings.TrimSpace(query.Get(param.name))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			writeLeadError(w, http.StatusBadRequest, "invalid_report_window", param.name+" must be an integer")
			return leadhttp.ReportWindowRequest{}, false
		}
		*param.target = value
	}
	return req, true
}

func (s *Server) writeLeadDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, leaderrors.ErrInvalidFilter):
		writeLeadError(w, http.StatusBadRequest, "invalid_filter", err.Error())
	case errors.Is(err, leaderrors.ErrInvalidLeadID):
		writeLeadError(w, http.StatusBadRequest, "invalid_lead_id", err.Error())
	case errors.Is(err, leaderrors.ErrInvalidEvent):
		writeLeadError(w, http.StatusBadRequest, "invalid_event", err.Error())
	case errors.Is(err, leaderrors.ErrInvalidReportWindow):
		writeLeadError(w, http.StatusBadRequest, "invalid_report_window", err.Error())
	case errors.Is(err, leaderrors.ErrInvalidLead):
		writeLeadError(w, http.StatusBadRequest, "invalid_lead", err.Error())
	case errors.Is(err, leaderrors.ErrLeadNotFound):
		writeLeadError(w, http.StatusNotFound, "lead_not_found", err.Error())
	case errors.Is(err, leaderrors.ErrDuplicateLead):
		writeLeadError(w, http.StatusConflict, "duplicate_lead", err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			"event", "http_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeLeadError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLeadError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, leadhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
