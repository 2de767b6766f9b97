package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/reload/os2display-middleware/internal/domain"
	"github.com/reload/os2display-middleware/internal/entity"
	apperrors "github.com/reload/os2display-middleware/internal/errors"
)

type screenUpdateRequest struct {
	Token  string   `json:"token"`
	Name   string   `json:"name"`
	Groups []string `json:"groups"`
}

type screenReloadRequest struct {
	// Screens maps activation tokens to screen IDs, matching the
	// administration backend's bookkeeping of issued tokens.
	Screens map[string]string `json:"screens,omitempty"`
	Groups  []string          `json:"groups,omitempty"`
}

type screenRemoveRequest struct {
	Token string `json:"token"`
}

type channelPushRequest struct {
	ChannelID      string          `json:"channelID"`
	ChannelContent json.RawMessage `json:"channelContent"`
	Groups         []string        `json:"groups"`
}

func ackResponse() map[string]string {
	return map[string]string{"status": "ok"}
}

// mapEntityError translates store sentinel errors into structured HTTP errors.
func mapEntityError(err error) error {
	switch {
	case errors.Is(err, domain.ErrTokenNotFound):
		return apperrors.NotFoundError("unknown screen token")
	case errors.Is(err, domain.ErrScreenNotFound):
		return apperrors.NotFoundError("screen not found")
	case errors.Is(err, domain.ErrChannelNotFound):
		return apperrors.NotFoundError("channel not found")
	case errors.Is(err, domain.ErrPartialSync):
		return apperrors.PartialSyncError("screen saved but group bindings not synchronized", err)
	default:
		return apperrors.StoreError("store operation failed", err)
	}
}

func (s *Server) handleScreenUpdate(c echo.Context) error {
	var req screenUpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("malformed request body")
	}
	if req.Token == "" {
		return apperrors.ValidationError("token is required")
	}

	ctx := c.Request().Context()

	screen := entity.NewScreenFromToken(s.store, s.dispatch, req.Token)
	if err := screen.Load(ctx); err != nil {
		return mapEntityError(err)
	}

	screen.SetName(req.Name)
	screen.SetGroups(req.Groups)
	if err := screen.Save(ctx); err != nil {
		return mapEntityError(err)
	}

	// Respond once the save is durable. The reload of the live session is
	// best-effort and must not change the command's outcome.
	if err := c.JSON(http.StatusOK, ackResponse()); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	screen.Reload()
	return nil
}

func (s *Server) handleScreenReload(c echo.Context) error {
	var req screenReloadRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("malformed request body")
	}
	if len(req.Screens) == 0 && len(req.Groups) == 0 {
		return apperrors.ValidationError("screens or groups is required")
	}

	ctx := c.Request().Context()

	if len(req.Screens) > 0 {
		for token, screenID := range req.Screens {
			screen := entity.NewScreenFromID(s.store, s.dispatch, screenID)
			if err := screen.Load(ctx); err != nil {
				slog.Warn("Skipping reload of unknown screen",
					"screen_id", screenID, "token", token, "error", err)
				continue
			}
			screen.Reload()
		}
		return c.JSON(http.StatusOK, ackResponse())
	}

	for _, groupID := range req.Groups {
		s.dispatch.Broadcast(groupID, domain.EventReload, nil)
	}
	return c.JSON(http.StatusOK, ackResponse())
}

func (s *Server) handleScreenRemove(c echo.Context) error {
	var req screenRemoveRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("malformed request body")
	}
	if req.Token == "" {
		return apperrors.ValidationError("token is required")
	}

	ctx := c.Request().Context()

	screen := entity.NewScreenFromToken(s.store, s.dispatch, req.Token)
	if err := screen.Load(ctx); err != nil {
		// Removal is idempotent: an already-removed screen is a success.
		if errors.Is(err, domain.ErrTokenNotFound) || errors.Is(err, domain.ErrScreenNotFound) {
			return c.JSON(http.StatusOK, ackResponse())
		}
		return mapEntityError(err)
	}

	if err := screen.Remove(ctx); err != nil {
		return mapEntityError(err)
	}
	return c.JSON(http.StatusOK, ackResponse())
}

func (s *Server) handleChannelPush(c echo.Context) error {
	var req channelPushRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("malformed request body")
	}
	if req.ChannelID == "" {
		return apperrors.ValidationError("channelID is required")
	}

	ctx := c.Request().Context()

	channel := entity.NewChannel(s.store, s.dispatch, req.ChannelID)
	channel.SetContent(req.ChannelContent)
	channel.SetGroups(req.Groups)
	if err := channel.Save(ctx); err != nil {
		return mapEntityError(err)
	}

	// Respond once the save is durable; fan-out to live sessions follows.
	if err := c.JSON(http.StatusOK, ackResponse()); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	channel.Push()
	return nil
}

func (s *Server) handleEmergencyPush(c echo.Context) error {
	return apperrors.NotImplementedError("emergency push is not implemented")
}

func (s *Server) handleStatus(c echo.Context) error {
	return apperrors.NotImplementedError("status reporting is not implemented")
}
