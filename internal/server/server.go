package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/reload/os2display-middleware/internal/config"
	"github.com/reload/os2display-middleware/internal/dispatch"
	apperrors "github.com/reload/os2display-middleware/internal/errors"
	"github.com/reload/os2display-middleware/internal/store"
)

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	store     store.Store
	dispatch  *dispatch.Dispatcher
	startTime time.Time
}

func NewServer(cfg *config.Config, st store.Store, d *dispatch.Dispatcher) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// The trust gate compares the direct socket address. Forwarding headers
	// are client-controlled and must never be consulted; this process is not
	// expected to sit behind a proxy.
	e.IPExtractor = echo.ExtractIPDirect()

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		store:     st,
		dispatch:  d,
		startTime: time.Now(),
	}

	// Register routes
	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
