// Package server exposes the optimization pipeline over HTTP. Jobs are
// accepted asynchronously: POST /optimize enqueues a run and returns a job
// ID, and the client polls /status and /result for progress.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-optimizer/internal/agent"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/server/middleware"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// JobStore persists optimization jobs and their results. *db.DB implements
// this; tests substitute an in-memory store.
type JobStore interface {
	CreateJob(ctx context.Context, resume, jobDescription string) (uuid.UUID, error)
	StartJob(ctx context.Context, jobID uuid.UUID) error
	CompleteJob(ctx context.Context, jobID uuid.UUID, result *types.OptimizationResult) error
	FailJob(ctx context.Context, jobID uuid.UUID, cause error) error
	GetJob(ctx context.Context, jobID uuid.UUID) (*db.Job, error)
	GetResult(ctx context.Context, jobID uuid.UUID) (*types.OptimizationResult, error)
}

// UserStore persists registered users.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
}

// Optimizer runs one optimization loop to completion.
type Optimizer interface {
	Run(ctx context.Context, opts agent.RunOptions) (*types.OptimizationResult, error)
}

// Config holds server configuration.
type Config struct {
	Port          int
	MaxIterations int
	MinScore      float64
	// JobTimeout bounds a single background optimization run.
	JobTimeout time.Duration
}

// Server is the HTTP server for the optimization API.
type Server struct {
	cfg       Config
	store     JobStore
	users     UserStore
	optimizer Optimizer
	jwt       *JWTService
	passwords PasswordHasher
	validate  *validator.Validate
	httpSrv   *http.Server
}

// PasswordHasher hashes and verifies user passwords.
// *config.PasswordConfig implements this.
type PasswordHasher interface {
	HashPassword(pw string) (string, error)
	VerifyPassword(pw, storedHash string) bool
}

// New creates a server. users, jwt, and passwords may be nil, in which case
// the auth endpoints are not registered and the API is open.
func New(cfg Config, store JobStore, users UserStore, optimizer Optimizer, jwt *JWTService, passwords PasswordHasher) *Server {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.JobTimeout == 0 {
		cfg.JobTimeout = 15 * time.Minute
	}

	s := &Server{
		cfg:       cfg,
		store:     store,
		users:     users,
		optimizer: optimizer,
		jwt:       jwt,
		passwords: passwords,
		validate:  validator.New(),
	}

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// routes builds the request multiplexer.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	authenticated := func(h http.HandlerFunc) http.Handler {
		if s.jwt == nil {
			return h
		}
		return middleware.Auth(s.jwt)(h)
	}

	mux.Handle("POST /optimize", authenticated(s.handleOptimize))
	mux.Handle("GET /status/{id}", authenticated(s.handleStatus))
	mux.Handle("GET /result/{id}", authenticated(s.handleResult))

	if s.users != nil && s.jwt != nil && s.passwords != nil {
		mux.HandleFunc("POST /auth/register", s.handleRegister)
		mux.HandleFunc("POST /auth/login", s.handleLogin)
	}

	return withLogging(withCORS(mux))
}

// Handler returns the fully assembled HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("server stopped")
	return nil
}

// withCORS adds permissive CORS headers and answers preflight requests.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with its duration.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}
