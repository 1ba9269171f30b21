// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the search orchestrator and the account store
// over HTTP.
//
// Search responses carry the orchestrator's Result or CombinedResult
// unchanged with status 200, including failed searches; only malformed
// requests get a 4xx status.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/pdiddy/knowmap/internal/accounts"
	"github.com/pdiddy/knowmap/internal/search"
	"github.com/pdiddy/knowmap/pkg/types"
)

const (
	defaultAddr            = ":5000"
	defaultShutdownTimeout = 10 * time.Second
	maxBodyBytes           = 1 << 20
)

// Accounts is the credential store behind /register and /login.
type Accounts interface {
	Register(ctx context.Context, username, password string) (accounts.User, error)
	Authenticate(ctx context.Context, username, password string) (accounts.User, error)
}

// Server serves the HTTP API.
type Server struct {
	orch     *search.Orchestrator
	accounts Accounts
	logger   *slog.Logger
}

// New returns a Server. A nil acct disables the account routes.
func New(orch *search.Orchestrator, acct Accounts, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{orch: orch, accounts: acct, logger: logger}
}

// Handler returns the routed handler with CORS, logging and panic
// recovery applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/sources", s.handleSources)
		r.Post("/search", s.handleSearch)
		r.Post("/search/multi", s.handleSearchMultiple)
		r.Get("/search/{source}", s.handleSearchSource)
		r.Get("/news/headlines", s.handleHeadlines)
	})

	if s.accounts != nil {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, failure("Route not found"))
	})
	return r
}

// Run listens on cfg.Addr and serves until ctx is cancelled, then shuts
// down gracefully within cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context, cfg types.ServerConfig) error {
	addr := cfg.Addr
	if addr == "" {
		addr = defaultAddr
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
