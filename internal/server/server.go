// Пакет server — HTTP-сервер сервиса с маршрутизацией и
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/shortshare/internal/auth"
	"github.com/iudanet/shortshare/internal/config"
	"github.com/iudanet/shortshare/internal/server/handlers"
	"github.com/iudanet/shortshare/internal/server/middleware"
	"github.com/iudanet/shortshare/internal/shares"
)

// Server — HTTP-сервер сервиса
type Server struct {
	httpServer *http.Server
	limiter    *middleware.RateLimiter
	logger     *slog.Logger
}

// New создаёт сервер с настроенными маршрутами и middleware.
// Порядок цепочки: recovery → logging → session auth → mux;
// rate limit навешен только на создание ссылок.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	service *shares.Service,
	resolver *auth.Resolver,
	sessions *auth.Sessions,
	version string,
) *Server {
	shareHandler := handlers.NewShareHandler(logger, service)
	adminHandler := handlers.NewAdminHandler(logger, service, resolver, sessions)
	healthHandler := handlers.NewHealthHandler(logger, version)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, logger)

	mux := http.NewServeMux()
	mux.Handle("POST /api/shorten", limiter.Middleware()(http.HandlerFunc(shareHandler.Create)))
	mux.HandleFunc("GET /r/{token}", shareHandler.Redirect)
	mux.HandleFunc("DELETE /r/{token}", shareHandler.Delete)
	mux.HandleFunc("GET /admin", adminHandler.Dashboard)
	mux.HandleFunc("GET /login", adminHandler.LoginPage)
	mux.HandleFunc("POST /login", adminHandler.Login)
	mux.HandleFunc("POST /logout", adminHandler.Logout)
	mux.HandleFunc("GET /api/health", healthHandler.Health)

	var handler http.Handler = mux
	handler = middleware.SessionAuth(logger, resolver)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/health"})(handler)
	handler = middleware.Recovery(logger)(handler)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		limiter:    limiter,
		logger:     logger,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server started", slog.String("addr", s.httpServer.Addr))

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.limiter.Stop()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
