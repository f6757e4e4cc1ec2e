package handlers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"chatterbox/auth"
	"chatterbox/contract"
	"chatterbox/errors"
	"chatterbox/protocol"

	"github.com/gofiber/contrib/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Socket owns the per-connection lifecycle: registry binding, the
// sequential read loop and the write pump draining the session's
// bounded queue.
type Socket struct {
	log        *slog.Logger
	registry   contract.IRegistry
	router     contract.IRouter
	bufferSize int
}

func NewSocket(log *slog.Logger, registry contract.IRegistry, router contract.IRouter, bufferSize int) *Socket {
	return &Socket{log: log, registry: registry, router: router, bufferSize: bufferSize}
}

// client is the EventSink bound to one WebSocket connection. Consume
// never blocks: a full queue reports ErrQueueFull (a counted delivery
// miss upstream), a closed session reports ErrSessionClosed so the
// registry repairs itself.
type client struct {
	out       chan protocol.ServerEvent
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(bufferSize int) *client {
	return &client{
		out:  make(chan protocol.ServerEvent, bufferSize),
		done: make(chan struct{}),
	}
}

func (c *client) Consume(_ context.Context, e protocol.ServerEvent) error {
	select {
	case <-c.done:
		return errors.ErrSessionClosed
	default:
	}
	select {
	case c.out <- e:
		return nil
	default:
		return errors.ErrQueueFull
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Handle manages one WebSocket connection from upgrade to teardown.
// Session release is deferred so every exit path (clean close, read
// error, panic in the loop) leaves the registry consistent.
func (s *Socket) Handle(conn *websocket.Conn) {
	userID := conn.Params("userID")
	if userID == "" {
		s.log.Warn("Rejecting socket without user id")
		conn.Close()
		return
	}

	// The handshake token is optional (the channel is identified by
	// user id, auth being a stub layer), but a token that is present
	// must be valid and belong to the same user.
	if token := conn.Query("token"); token != "" {
		claims, err := auth.ValidateToken(token)
		if err != nil || claims.UserID != userID {
			s.log.Warn("Rejecting socket with bad token", "user_id", userID)
			conn.WriteJSON(protocol.NewError(protocol.CodeBadEvent, "invalid token"))
			conn.Close()
			return
		}
	}

	cl := newClient(s.bufferSize)
	sessionID := s.registry.Connect(userID, cl)
	s.log.Info("Client connected", "user_id", userID, "session_id", sessionID)

	defer func() {
		s.registry.Disconnect(sessionID)
		cl.close()
		conn.Close()
		s.log.Info("Client disconnected", "user_id", userID, "session_id", sessionID)
	}()

	go s.writePump(conn, cl, userID)

	// The read loop runs on the handler goroutine: one connection's
	// events are processed strictly sequentially, which is what gives
	// recipients per-sender ordering.
	s.readLoop(conn, userID)
}

func (s *Socket) readLoop(conn *websocket.Conn, userID string) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("Socket read error", "user_id", userID, "error", err)
			}
			return
		}
		s.router.HandleRaw(context.Background(), userID, raw)
	}
}

func (s *Socket) writePump(conn *websocket.Conn, cl *client, userID string) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-cl.out:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				s.log.Warn("Socket write error", "user_id", userID, "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-cl.done:
			conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
