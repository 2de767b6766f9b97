package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Screen-facing WebSocket endpoint. Screens authenticate with their
	// activation token, never by origin address.
	s.echo.GET("/ws/screen", s.handleScreenSocket)

	// Backend command API. Every route sits behind the origin trust gate;
	// outcome accounting wraps the gate so rejections are counted too.
	api := s.echo.Group("/api", s.commandMetrics, s.requireBackend)
	api.POST("/screen/update", s.handleScreenUpdate)
	api.POST("/screen/reload", s.handleScreenReload)
	api.POST("/screen/remove", s.handleScreenRemove)
	api.POST("/channel/push", s.handleChannelPush)
	api.POST("/channel/emergency", s.handleEmergencyPush)
	api.GET("/status", s.handleStatus)
}
