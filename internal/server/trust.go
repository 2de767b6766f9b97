package server

import (
	"github.com/labstack/echo/v4"
	apperrors "github.com/reload/os2display-middleware/internal/errors"
	"github.com/reload/os2display-middleware/internal/metrics"
)

// commandNames maps backend API routes to their command names for outcome
// accounting.
var commandNames = map[string]string{
	"/api/screen/update":     "screenUpdate",
	"/api/screen/reload":     "screenReload",
	"/api/screen/remove":     "screenRemove",
	"/api/channel/push":      "pushChannel",
	"/api/channel/emergency": "pushEmergency",
	"/api/status":            "status",
}

// isTrustedBackend reports whether the request origin address matches the
// configured backend address exactly.
func isTrustedBackend(origin, backend string) bool {
	return origin != "" && origin == backend
}

// requireBackend rejects any request whose socket address does not match the
// configured backend. The gate runs before handlers, so untrusted requests
// never touch the store.
func (s *Server) requireBackend(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		origin := c.RealIP()
		if !isTrustedBackend(origin, s.config.BackendIP) {
			return apperrors.UnauthorizedError("request origin is not the configured backend").
				WithField("origin", origin)
		}
		return next(c)
	}
}

// commandMetrics counts every backend command by outcome. It sits outside the
// trust gate in the middleware chain, so rejected requests are counted
// alongside handler outcomes.
func (s *Server) commandMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)

		name, ok := commandNames[c.Path()]
		if !ok {
			return err
		}

		outcome := "success"
		if err != nil {
			outcome = string(apperrors.AsStructuredError(err).Type)
		}
		metrics.CommandsTotal.WithLabelValues(name, outcome).Inc()

		return err
	}
}
