// Package server implements the HTTP surface using the Echo framework.
//
// Two surfaces share one server: the backend command API under /api, gated
// by origin address, and the screen WebSocket endpoint /ws/screen, gated by
// activation token. Handlers split by surface: handlers_backend.go,
// handlers_screen.go, handlers_health.go.
package server
