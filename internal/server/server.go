// Package server provides the HTTP REST API for brand voice, prompt
// templates, content generation and website analysis.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/brand-content-engine/internal/analysis"
	"github.com/jonathan/brand-content-engine/internal/generation"
	"github.com/jonathan/brand-content-engine/internal/logger"
	"github.com/jonathan/brand-content-engine/internal/server/ratelimit"
	"github.com/jonathan/brand-content-engine/internal/templates"
	"github.com/jonathan/brand-content-engine/internal/types"
)

// maxBodyBytes caps request bodies; transcripts are the largest input.
const maxBodyBytes = 1 << 20

// TenantStore is the tenant persistence the API needs.
type TenantStore interface {
	templates.Store
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	SaveBrandVoice(ctx context.Context, id uuid.UUID, raw *types.RawBrandVoice) error
	SavePillars(ctx context.Context, id uuid.UUID, pillars []string) error
	ListTenants(ctx context.Context, limit int) ([]types.Tenant, error)
}

// Deps are the collaborators served over HTTP.
type Deps struct {
	Tenants   TenantStore
	Templates *templates.Manager
	Pipeline  *generation.Pipeline
	Tracker   *analysis.Tracker
	Limiter   *ratelimit.Limiter
	// Ready reports backing store health for GET /health. Optional.
	Ready func(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	deps       Deps
	validate   *validator.Validate
	log        *logger.Logger
	// pollInterval paces analysis progress streams.
	pollInterval    time.Duration
	analysisTimeout time.Duration
}

// Config holds server configuration
type Config struct {
	Port int
	// AnalysisTimeout is the wall-clock bound clients should apply to an
	// analysis job. Defaults to analysis.WallClockHint.
	AnalysisTimeout time.Duration
}

// New creates a new server instance
func New(cfg Config, deps Deps, log *logger.Logger) *Server {
	s := &Server{
		deps:         deps,
		validate:     newValidator(),
		log:          logger.OrNop(log).With("component", "server"),
		pollInterval: time.Second,
	}
	s.analysisTimeout = cfg.AnalysisTimeout
	if s.analysisTimeout <= 0 {
		s.analysisTimeout = analysis.WallClockHint
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // advanced-tier generation and event streams
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Tenants and brand voice
	mux.HandleFunc("POST /tenants", s.handleCreateTenant)
	mux.HandleFunc("GET /tenants", s.handleListTenants)
	mux.HandleFunc("PUT /tenants/{id}/pillars", s.handlePutPillars)
	mux.HandleFunc("GET /tenants/{id}/brand-voice", s.handleGetBrandVoice)
	mux.HandleFunc("PUT /tenants/{id}/brand-voice", s.handlePutBrandVoice)

	// Prompt templates
	mux.HandleFunc("GET /tenants/{id}/prompts/{kind}", s.handleGetPrompt)
	mux.HandleFunc("PUT /tenants/{id}/prompts/{kind}", s.handleUpdatePrompt)
	mux.HandleFunc("POST /tenants/{id}/prompts/{kind}/regenerate", s.handleRegeneratePrompt)

	// Content generation
	mux.HandleFunc("POST /hooks", s.handleHooks)
	mux.HandleFunc("POST /posts", s.handlePost)
	mux.HandleFunc("POST /rewrite", s.handleRewrite)
	mux.HandleFunc("POST /image-prompt", s.handleImagePrompt)

	// Website analysis
	mux.HandleFunc("POST /analysis", s.handleStartAnalysis)
	mux.HandleFunc("GET /analysis/{id}", s.handleGetAnalysis)
	mux.HandleFunc("GET /analysis/{id}/events", s.handleAnalysisEvents)

	var h http.Handler = mux
	h = s.withCORS(h)
	h = s.withLogging(h)
	if s.deps.Limiter != nil {
		h = s.withRateLimit(h)
	}
	return h
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if s.deps.Limiter != nil {
		s.deps.Limiter.Stop()
	}
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps event streams working through the logging middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status,
			"duration", time.Since(start).String(), "remote", r.RemoteAddr)
	})
}

// withRateLimit rejects clients over their per-route budget.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.deps.Limiter.Allow(clientID(r), r.Method, r.URL.Path)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if !allowed {
			retry := int(info.RetryAfter.Round(time.Second).Seconds())
			w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
			s.log.Warn("rate limit exceeded", "client", clientID(r), "path", r.URL.Path)
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID uses the remote IP. Client-supplied headers such as X-Client-ID
// or X-Forwarded-For are ignored so a caller cannot mint fresh buckets.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	mode := "live"
	if s.deps.Pipeline == nil || s.deps.Pipeline.MockMode() {
		mode = "mock"
	}
	if s.deps.Ready != nil {
		if err := s.deps.Ready(r.Context()); err != nil {
			s.log.Warn("health check failed", "error", err)
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "mode": mode})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "mode": mode})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("error encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status. Internal details are logged, not returned.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// decode reads a JSON body into v and validates its struct tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ErrValidation{Field: fe.Field(), Message: "failed '" + fe.Tag() + "' check"}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a UUID"}
	}
	return id, nil
}

func pathKind(r *http.Request) (types.TemplateKind, error) {
	kind := types.TemplateKind(r.PathValue("kind"))
	if !kind.Valid() {
		return "", &ErrValidation{Field: "kind", Message: "must be one of linkedin_post, hook, image"}
	}
	return kind, nil
}
