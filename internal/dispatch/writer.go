package dispatch

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/reload/os2display-middleware/internal/metrics"
)

const (
	writeDeadline     = 5 * time.Second
	pingInterval      = 30 * time.Second
	pongDeadline      = 60 * time.Second
	messageBufferSize = 16
)

// sessionWriter owns all writes to one screen connection. Events are queued
// on sendChannel; a full queue marks the session as slow and the dispatcher
// evicts it.
type sessionWriter struct {
	connection  *websocket.Conn
	clock       clockwork.Clock
	sendChannel chan []byte
	doneChannel chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

func newSessionWriter(connection *websocket.Conn, clock clockwork.Clock) *sessionWriter {
	cw := &sessionWriter{
		connection:  connection,
		clock:       clock,
		sendChannel: make(chan []byte, messageBufferSize),
		doneChannel: make(chan struct{}),
	}
	cw.configurePongHandler()
	cw.wg.Add(1)
	go cw.run()
	return cw
}

func (cw *sessionWriter) run() {
	ticker := cw.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer cw.wg.Done()

	for {
		select {
		case msg, ok := <-cw.sendChannel:
			if !ok {
				return
			}
			start := cw.clock.Now()
			cw.updateWriteDeadline()
			if err := cw.connection.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
			metrics.WebSocketMessageSendDuration.Observe(cw.clock.Since(start).Seconds())
		case <-ticker.Chan():
			cw.updateWriteDeadline()
			if err := cw.connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				metrics.WebSocketPingFailures.Inc()
				return
			}
		case <-cw.doneChannel:
			return
		}
	}
}

func (cw *sessionWriter) stop() {
	cw.stopOnce.Do(func() {
		close(cw.doneChannel)
		_ = cw.connection.Close()
	})
	cw.wg.Wait()
}

// stopGraceful sends a WebSocket close frame with reason before closing.
func (cw *sessionWriter) stopGraceful(reason string) {
	cw.stopOnce.Do(func() {
		// Signal the run goroutine to exit and wait for it, so the close
		// frame is not written concurrently with a queued event.
		close(cw.doneChannel)
		cw.wg.Wait()

		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		cw.updateWriteDeadline()
		_ = cw.connection.WriteMessage(websocket.CloseMessage, closeMsg)
		_ = cw.connection.Close()
	})
}

func (cw *sessionWriter) configurePongHandler() {
	cw.updateReadDeadline()
	cw.connection.SetPongHandler(func(string) error {
		cw.updateReadDeadline()
		return nil
	})
}

func (cw *sessionWriter) updateWriteDeadline() {
	_ = cw.connection.SetWriteDeadline(cw.clock.Now().Add(writeDeadline))
}

func (cw *sessionWriter) updateReadDeadline() {
	_ = cw.connection.SetReadDeadline(cw.clock.Now().Add(pongDeadline))
}
