package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/reload/os2display-middleware/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Screens connect from arbitrary networks
	},
}

func (s *Server) handleScreenSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.String(http.StatusBadRequest, "Missing token")
	}

	ctx := c.Request().Context()

	screenID, err := s.store.ResolveToken(ctx, token)
	if errors.Is(err, domain.ErrTokenNotFound) {
		return c.String(http.StatusNotFound, "Unknown token")
	}
	if err != nil {
		slog.Error("Failed to resolve screen token", "error", err)
		return c.String(http.StatusInternalServerError, "Internal error")
	}

	record, err := s.store.GetScreen(ctx, screenID)
	if errors.Is(err, domain.ErrScreenNotFound) {
		return c.String(http.StatusNotFound, "Screen not found")
	}
	if err != nil {
		slog.Error("Failed to load screen record", "error", err, "screen_id", screenID)
		return c.String(http.StatusInternalServerError, "Internal error")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket", "error", err, "screen_id", screenID)
		return nil
	}

	if err := s.dispatch.Register(screenID, record.ScreenGroups, conn); err != nil {
		slog.Error("Failed to register screen session", "error", err, "screen_id", screenID)
		_ = conn.Close()
		return nil
	}

	slog.Info("Screen session connected", "screen_id", screenID)

	// Read pump, blocks until the connection closes. Screens send nothing
	// meaningful upstream; reading keeps pong handling alive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.dispatch.Unregister(screenID, conn)
	slog.Info("Screen session disconnected", "screen_id", screenID)

	return nil
}
