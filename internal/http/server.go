// README: API server; owns the http.Server lifecycle around the gin router.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"shipcalc/internal/modules/pricing"
	"shipcalc/internal/modules/quote"
	"shipcalc/internal/modules/ratetable"
	"shipcalc/internal/modules/zone"
)

type ServerDeps struct {
	Pricing *pricing.Service
	Quotes  *quote.Service
	Zones   *zone.Service
	Rates   *ratetable.Registry
	Logger  *slog.Logger
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	return NewRouter(s.deps)
}

// Run serves addr until ctx is cancelled, then drains within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.deps.Logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
