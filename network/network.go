package network

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"artillery/protocol"
	"artillery/room"
)

const (
	readLimit    = 1 << 16
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
	helloWait    = 10 * time.Second
)

// Handler serves the /ws endpoint: one websocket per player.
type Handler struct {
	Manager *room.Manager
	Codec   protocol.Codec
	Logger  *log.Logger

	upgrader websocket.Upgrader
}

func NewHandler(m *room.Manager, codec protocol.Codec, logger *log.Logger) *Handler {
	return &Handler{
		Manager: m,
		Codec:   codec,
		Logger:  logger,
		upgrader: websocket.Upgrader{
			// For dev, allow all origins. Lock this down in prod.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP -> WebSocket
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	conn := newWSConn(ws, h.Codec.Binary())
	defer conn.Close()

	// Basic timeouts + pong handling (keeps connections healthy)
	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(helloWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	hello, err := h.readHello(ws)
	if err != nil {
		h.Logger.Debug("bad hello", "remote", r.RemoteAddr, "err", err)
		return
	}

	res, err := h.Manager.Join(hello.Room, conn, hello.Name)
	if err != nil {
		h.Logger.Info("join refused", "remote", r.RemoteAddr, "room", hello.Room, "err", err)
		if errors.Is(err, room.ErrRoomFull) {
			if b, err := h.Codec.Encode(protocol.MsgRoomFull, protocol.RoomFull{Room: hello.Room}); err == nil {
				_ = conn.Send(b)
			}
		}
		return
	}
	logger := h.Logger.With("player", res.PlayerID, "room", res.Code)
	defer h.Manager.Leave(res.PlayerID)

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	go conn.pingLoop()

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("read", "err", err)
			}
			return
		}
		if err := h.handleFrame(res.PlayerID, msg); err != nil {
			logger.Debug("frame dropped", "err", err)
		}
	}
}

func (h *Handler) readHello(ws *websocket.Conn) (protocol.Hello, error) {
	_, msg, err := ws.ReadMessage()
	if err != nil {
		return protocol.Hello{}, fmt.Errorf("read hello: %w", err)
	}
	env, err := h.Codec.DecodeEnvelope(msg)
	if err != nil {
		return protocol.Hello{}, err
	}
	if env.T != protocol.MsgHello {
		return protocol.Hello{}, fmt.Errorf("expected %s, got %q", protocol.MsgHello, env.T)
	}
	return protocol.DecodeWith[protocol.Hello](h.Codec, env)
}

var errUnexpectedFrame = errors.New("unexpected frame type")

// handleFrame decodes one client frame and submits it. Malformed and unknown
// frames are dropped; the connection stays open.
func (h *Handler) handleFrame(playerID string, msg []byte) error {
	env, err := h.Codec.DecodeEnvelope(msg)
	if err != nil {
		return err
	}
	if env.T != protocol.MsgAction {
		return fmt.Errorf("%w %q", errUnexpectedFrame, env.T)
	}
	am, err := protocol.DecodeWith[protocol.ActionMsg](h.Codec, env)
	if err != nil {
		return fmt.Errorf("decode action: %w", err)
	}
	a, err := am.ToAction()
	if err != nil {
		return err
	}
	return h.Manager.Submit(playerID, a)
}

// wsConn adapts a websocket to room.Conn. gorilla allows one concurrent
// writer, so frames and pings share a mutex.
type wsConn struct {
	ws      *websocket.Conn
	msgType int

	mu        sync.Mutex
	closed    chan struct{}
	closeOnce sync.Once
}

var _ room.Conn = (*wsConn)(nil)

func newWSConn(ws *websocket.Conn, binary bool) *wsConn {
	t := websocket.TextMessage
	if binary {
		t = websocket.BinaryMessage
	}
	return &wsConn{ws: ws, msgType: t, closed: make(chan struct{})}
}

func (c *wsConn) Send(b []byte) error {
	return c.write(c.msgType, b)
}

func (c *wsConn) write(t int, b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(t, b)
}

func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.ws.Close()
	})
	return err
}

func (c *wsConn) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}
