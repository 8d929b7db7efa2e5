// Package server is the reference save endpoint behind `slotbook serve`.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/julianstephens/slotbook/internal/config"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/discovery"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/metrics"
	"github.com/julianstephens/slotbook/internal/server/handlers"
	"github.com/julianstephens/slotbook/internal/server/handlers/list_bookings"
	"github.com/julianstephens/slotbook/internal/server/handlers/save_bookings"
	"github.com/julianstephens/slotbook/internal/storage"
)

// Server serves the save and listing endpoints over a bookings store.
type Server struct {
	cfg      config.ServerConfig
	store    storage.Provider
	metrics  *metrics.Metrics
	router   *mux.Router
	lockfile string
}

// New wires the routes. An empty lockfile path disables discovery.
func New(cfg config.ServerConfig, store storage.Provider, lockfile string) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		metrics:  metrics.New(),
		lockfile: lockfile,
	}

	r := mux.NewRouter()
	r.Use(s.metrics.Middleware)

	r.Handle(cfg.MetricsPath, s.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	saveBookings := save_bookings.NewHandler(store, s.metrics)
	listBookings := list_bookings.NewHandler(store)
	r.HandleFunc(constants.SaveEndpointPath, saveBookings.Handle).Methods(http.MethodPost)
	r.HandleFunc(constants.BookingsPath, listBookings.Handle).Methods(http.MethodGet)

	s.router = r
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured port until ctx is cancelled, then shuts down
// gracefully. The lockfile is written once listening and removed on exit.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.cfg.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run over an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeoutDuration(),
		WriteTimeout: s.cfg.WriteTimeoutDuration(),
	}

	port := ln.Addr().(*net.TCPAddr).Port
	if s.lockfile != "" {
		if err := discovery.WriteLockfile(s.lockfile, port); err != nil {
			ln.Close()
			return err
		}
		defer func() {
			if err := discovery.RemoveLockfile(s.lockfile); err != nil {
				logger.Warn("Failed to remove lockfile", "path", s.lockfile, "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving bookings", "addr", ln.Addr().String(), "store", s.store.Describe())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
