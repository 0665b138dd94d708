// Package server provides the HTTP REST API for the recruitment portal.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/campushire/faculty-portal/internal/apperr"
	"github.com/campushire/faculty-portal/internal/config"
	"github.com/campushire/faculty-portal/internal/db"
	"github.com/campushire/faculty-portal/internal/docstore"
	"github.com/campushire/faculty-portal/internal/jobs"
	"github.com/campushire/faculty-portal/internal/lifecycle"
	"github.com/campushire/faculty-portal/internal/notify"
	"github.com/campushire/faculty-portal/internal/receipt"
	"github.com/campushire/faculty-portal/internal/schemas"
	"github.com/campushire/faculty-portal/internal/server/middleware"
	"github.com/campushire/faculty-portal/internal/server/ratelimit"
	"github.com/campushire/faculty-portal/internal/types"
)

// Store is the persistence surface the server needs: the lifecycle contract
// plus applicant-scoped listing.
type Store interface {
	lifecycle.Store
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]types.Application, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	pool        *db.DB
	jobs        *jobs.Directory
	manager     *lifecycle.Manager
	reviewer    *lifecycle.Reviewer
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
}

// Config holds server configuration
type Config struct {
	Port            int
	DatabaseURL     string
	JobsFile        string
	DisableReceipts bool
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	s := &Server{}

	// Empty DATABASE_URL runs on the in-memory store, for local development.
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.pool = pool
		s.store = pool
	} else {
		log.Println("DATABASE_URL not set; using in-memory store")
		s.store = db.NewMemoryStore()
	}

	if cfg.JobsFile != "" {
		directory, err := jobs.LoadDirectory(cfg.JobsFile)
		if err != nil {
			return nil, err
		}
		s.jobs = directory
	} else {
		s.jobs = jobs.NewDirectory()
	}

	sectionValidator, err := schemas.NewValidator()
	if err != nil {
		return nil, err
	}

	opts := lifecycle.ManagerOptions{
		Sections:  sectionValidator,
		Notifier:  notify.NewLogNotifier(),
		Documents: docstore.NewMemory(),
	}
	if !cfg.DisableReceipts {
		opts.Receipts = receipt.NewChromePDF()
	}
	s.manager = lifecycle.NewManager(s.store, s.jobs, opts)
	s.reviewer = lifecycle.NewReviewer(s.store)

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	authed := middleware.Auth(s.jwtService.AsTokenValidator())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(authedExceptHealth(authed, mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// registerRoutes wires the portal endpoints onto the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)

	// Job postings
	mux.HandleFunc("GET /jobs", s.handleListJobs)

	// Applicant endpoints
	mux.HandleFunc("POST /jobs/{job_id}/applications/draft", middleware.RequireRole(middleware.RoleApplicant, s.handleCreateDraft))
	mux.HandleFunc("GET /applications", middleware.RequireRole(middleware.RoleApplicant, s.handleListApplications))
	mux.HandleFunc("PUT /applications/{id}/sections/{section_type}", middleware.RequireRole(middleware.RoleApplicant, s.handleWriteSection))
	mux.HandleFunc("POST /applications/{id}/submit", middleware.RequireRole(middleware.RoleApplicant, s.handleSubmit))
	mux.HandleFunc("POST /applications/{id}/withdraw", middleware.RequireRole(middleware.RoleApplicant, s.handleWithdraw))

	// Shared read
	mux.HandleFunc("GET /applications/{id}", s.handleGetApplication)

	// Reviewer endpoints
	mux.HandleFunc("POST /applications/{id}/sections/{section_type}/verify", middleware.RequireRole(middleware.RoleReviewer, s.handleVerifySection))
	mux.HandleFunc("POST /applications/{id}/status", middleware.RequireRole(middleware.RoleReviewer, s.handleUpdateStatus))
	mux.HandleFunc("GET /applications/{id}/verification", middleware.RequireRole(middleware.RoleReviewer, s.handleVerificationSummary))
}

// authedExceptHealth leaves the health probe unauthenticated.
func authedExceptHealth(auth func(http.Handler) http.Handler, mux http.Handler) http.Handler {
	protected := auth(mux)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			mux.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	})
}

// Start begins listening for requests
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.pool != nil {
		s.pool.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListJobs returns the configured job postings.
func (s *Server) handleListJobs(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.jobs.All())
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, errorBody{Error: message})
}

// engineError maps an engine error onto the HTTP response, including the
// error code and any per-field validation detail.
func (s *Server) engineError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		s.jsonResponse(w, status, errorBody{Error: "internal error", Code: string(apperr.CodeInternal)})
		return
	}
	s.jsonResponse(w, status, errorBody{
		Error:  err.Error(),
		Code:   string(apperr.CodeOf(err)),
		Fields: apperr.FieldsOf(err),
	})
}

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr; X-Forwarded-For is only trustworthy
// behind a known proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
