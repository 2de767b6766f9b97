package server

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/reload/os2display-middleware/internal/version"
)

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := time.Since(s.startTime).Seconds()
	return c.JSON(200, map[string]any{
		"status": "ok",
		"uptime": uptime,
	})
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		return c.JSON(503, map[string]any{
			"status":       "unhealthy",
			"failed_check": "store",
			"error":        err.Error(),
		})
	}

	return c.JSON(200, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(200, version.Get())
}
