// Package dispatch maps group identifiers to the set of currently connected
// screen sessions and emits named events to exactly that set.
package dispatch

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/reload/os2display-middleware/internal/metrics"
)

// session is one live screen connection and its current group binding.
type session struct {
	connID     uuid.UUID
	screenID   string
	groups     map[string]struct{}
	connection *websocket.Conn
	writer     *sessionWriter
}

func (s *session) inGroup(groupID string) bool {
	_, ok := s.groups[groupID]
	return ok
}

// wireEvent is the envelope for every outbound event to a screen.
type wireEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// dispatcherCmd is the command interface for the Dispatcher actor.
type dispatcherCmd interface{ isDispatcherCmd() }

type baseDispatcherCmd struct{}

func (baseDispatcherCmd) isDispatcherCmd() {}

type registerCmd struct {
	baseDispatcherCmd
	screenID     string
	groups       []string
	connection   *websocket.Conn
	errorChannel chan error
}

type unregisterCmd struct {
	baseDispatcherCmd
	screenID   string
	connection *websocket.Conn
}

type broadcastCmd struct {
	baseDispatcherCmd
	groupID string
	event   string
	data    []byte
}

type sendCmd struct {
	baseDispatcherCmd
	screenID string
	event    string
	data     []byte
}

type updateGroupsCmd struct {
	baseDispatcherCmd
	screenID string
	groups   []string
}

type disconnectCmd struct {
	baseDispatcherCmd
	screenID string
	reason   string
}

type connectedCmd struct {
	baseDispatcherCmd
	screenID     string
	replyChannel chan bool
}

type sessionCountCmd struct {
	baseDispatcherCmd
	replyChannel chan int
}

type stopCmd struct {
	baseDispatcherCmd
}

// Dispatcher is the session registry and group fan-out engine. It runs as a
// single actor goroutine over a command channel, so lookups and broadcasts
// never observe a half-updated registry: a session added or removed while a
// broadcast is queued is either fully included or fully excluded.
type Dispatcher struct {
	cmdCh    chan dispatcherCmd
	clock    clockwork.Clock
	sessions map[string]*session
}

func NewDispatcher(clock clockwork.Clock) *Dispatcher {
	d := &Dispatcher{
		cmdCh:    make(chan dispatcherCmd, 256),
		clock:    clock,
		sessions: make(map[string]*session),
	}
	go d.run()
	return d
}

// --- Public API ---

// Register binds a live connection to a screen identity with its current
// groups. A screen has at most one live session; a reconnect supersedes the
// previous connection.
func (d *Dispatcher) Register(screenID string, groups []string, conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	d.cmdCh <- registerCmd{screenID: screenID, groups: groups, connection: conn, errorChannel: errCh}
	return <-errCh
}

// Unregister removes a screen session, but only if it still owns the given
// connection (a superseded connection's read pump must not unbind its
// replacement).
func (d *Dispatcher) Unregister(screenID string, conn *websocket.Conn) {
	d.cmdCh <- unregisterCmd{screenID: screenID, connection: conn}
}

// Broadcast emits eventName(payload) to every session currently bound to
// groupID. Membership is decided at the time the command is processed;
// delivery to individual sessions is best-effort.
func (d *Dispatcher) Broadcast(groupID, event string, payload any) {
	data, err := json.Marshal(wireEvent{Event: event, Payload: payload})
	if err != nil {
		slog.Error("Failed to marshal broadcast event", "event", event, "error", err)
		return
	}
	metrics.DispatcherBroadcastsTotal.WithLabelValues(event).Inc()
	d.cmdCh <- broadcastCmd{groupID: groupID, event: event, data: data}
}

// Send emits eventName(payload) point-to-point to one screen's session.
// A no-op if the screen is offline.
func (d *Dispatcher) Send(screenID, event string, payload any) {
	data, err := json.Marshal(wireEvent{Event: event, Payload: payload})
	if err != nil {
		slog.Error("Failed to marshal event", "event", event, "error", err)
		return
	}
	d.cmdCh <- sendCmd{screenID: screenID, event: event, data: data}
}

// UpdateGroups refreshes the live group binding of a screen after a save.
// A no-op if the screen is offline.
func (d *Dispatcher) UpdateGroups(screenID string, groups []string) {
	d.cmdCh <- updateGroupsCmd{screenID: screenID, groups: groups}
}

// Disconnect tears down a screen's session with a close reason. A no-op if
// the screen is offline.
func (d *Dispatcher) Disconnect(screenID, reason string) {
	d.cmdCh <- disconnectCmd{screenID: screenID, reason: reason}
}

// Connected reports whether a live session is bound for screenID.
func (d *Dispatcher) Connected(screenID string) bool {
	replyCh := make(chan bool, 1)
	d.cmdCh <- connectedCmd{screenID: screenID, replyChannel: replyCh}
	return <-replyCh
}

// SessionCount returns the number of connected screen sessions.
func (d *Dispatcher) SessionCount() int {
	replyCh := make(chan int, 1)
	d.cmdCh <- sessionCountCmd{replyChannel: replyCh}
	return <-replyCh
}

// Stop shuts down the dispatcher, closing all screen connections.
func (d *Dispatcher) Stop() {
	d.cmdCh <- stopCmd{}
}

// --- Actor loop ---

func (d *Dispatcher) run() {
	for cmd := range d.cmdCh {
		switch c := cmd.(type) {
		case registerCmd:
			d.handleRegister(c)
		case unregisterCmd:
			d.handleUnregister(c.screenID, c.connection)
		case broadcastCmd:
			d.handleBroadcast(c)
		case sendCmd:
			d.handleSend(c)
		case updateGroupsCmd:
			d.handleUpdateGroups(c)
		case disconnectCmd:
			d.handleDisconnect(c)
		case connectedCmd:
			_, ok := d.sessions[c.screenID]
			c.replyChannel <- ok
		case sessionCountCmd:
			c.replyChannel <- len(d.sessions)
		case stopCmd:
			d.handleStop()
			return
		}
	}
}

func (d *Dispatcher) handleRegister(c registerCmd) {
	if old, exists := d.sessions[c.screenID]; exists {
		// Reconnect: the new connection wins.
		slog.Info("Superseding live session", "screen_id", c.screenID, "conn_id", old.connID.String())
		old.writer.stopGraceful("superseded by new connection")
		delete(d.sessions, c.screenID)
	}

	groups := make(map[string]struct{}, len(c.groups))
	for _, g := range c.groups {
		groups[g] = struct{}{}
	}

	s := &session{
		connID:     uuid.New(),
		screenID:   c.screenID,
		groups:     groups,
		connection: c.connection,
		writer:     newSessionWriter(c.connection, d.clock),
	}
	d.sessions[c.screenID] = s

	metrics.DispatcherActiveSessions.Set(float64(len(d.sessions)))
	slog.Info("Screen session registered", "screen_id", c.screenID, "conn_id", s.connID.String(), "groups", c.groups)
	c.errorChannel <- nil
}

func (d *Dispatcher) handleUnregister(screenID string, conn *websocket.Conn) {
	s, exists := d.sessions[screenID]
	if !exists || s.connection != conn {
		return
	}

	s.writer.stop()
	delete(d.sessions, screenID)

	metrics.DispatcherActiveSessions.Set(float64(len(d.sessions)))
	slog.Info("Screen session unregistered", "screen_id", screenID, "conn_id", s.connID.String())
}

func (d *Dispatcher) handleBroadcast(c broadcastCmd) {
	// Snapshot the member set first, then deliver, so an eviction mid-loop
	// cannot skip or double-count a member.
	var members []*session
	for _, s := range d.sessions {
		if s.inGroup(c.groupID) {
			members = append(members, s)
		}
	}

	var slow []*session
	for _, s := range members {
		select {
		case s.writer.sendChannel <- c.data:
			metrics.DispatcherDeliveriesTotal.WithLabelValues(c.event).Inc()
		default:
			slow = append(slow, s)
		}
	}

	for _, s := range slow {
		slog.Warn("Disconnecting slow screen session", "screen_id", s.screenID, "event", c.event)
		metrics.DispatcherSlowSessionsEvicted.Inc()
		d.handleUnregister(s.screenID, s.connection)
	}
}

func (d *Dispatcher) handleSend(c sendCmd) {
	s, exists := d.sessions[c.screenID]
	if !exists {
		// Offline means "not connected", not an error.
		return
	}

	select {
	case s.writer.sendChannel <- c.data:
		metrics.DispatcherDeliveriesTotal.WithLabelValues(c.event).Inc()
	default:
		slog.Warn("Disconnecting slow screen session", "screen_id", s.screenID, "event", c.event)
		metrics.DispatcherSlowSessionsEvicted.Inc()
		d.handleUnregister(s.screenID, s.connection)
	}
}

func (d *Dispatcher) handleUpdateGroups(c updateGroupsCmd) {
	s, exists := d.sessions[c.screenID]
	if !exists {
		return
	}

	groups := make(map[string]struct{}, len(c.groups))
	for _, g := range c.groups {
		groups[g] = struct{}{}
	}
	s.groups = groups
	slog.Debug("Screen group binding refreshed", "screen_id", c.screenID, "groups", c.groups)
}

func (d *Dispatcher) handleDisconnect(c disconnectCmd) {
	s, exists := d.sessions[c.screenID]
	if !exists {
		return
	}

	s.writer.stopGraceful(c.reason)
	delete(d.sessions, c.screenID)

	metrics.DispatcherActiveSessions.Set(float64(len(d.sessions)))
	slog.Info("Screen session disconnected", "screen_id", c.screenID, "reason", c.reason)
}

func (d *Dispatcher) handleStop() {
	for screenID, s := range d.sessions {
		s.writer.stopGraceful("server shutting down")
		delete(d.sessions, screenID)
	}
	metrics.DispatcherActiveSessions.Set(0)
}
