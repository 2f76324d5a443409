package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from the server
	maxMessageSize = 64 * 1024

	// Outbound buffer; a full buffer drops the frame (fire-and-forget)
	sendBuffer = 256
)

// Handler receives the raw payload of one event occurrence.
type Handler func(payload json.RawMessage)

// Channel is one long-lived duplex connection to the realtime endpoint.
// A Channel belongs to exactly one credential: when the credential changes
// the session manager closes this Channel and constructs a new one, the
// connection is never migrated.
type Channel struct {
	endpoint string
	token    string
	dialer   *websocket.Dialer

	mu          sync.RWMutex
	conn        *websocket.Conn
	connected   bool
	closed      bool
	send        chan []byte
	stop        chan struct{}
	subscribers map[string]map[uuid.UUID]Handler
}

// NewChannel creates a channel for the given ws endpoint, authenticated with
// the given credential. The channel starts disconnected; call Connect.
func NewChannel(endpoint, token string) *Channel {
	return &Channel{
		endpoint:    endpoint,
		token:       token,
		dialer:      websocket.DefaultDialer,
		subscribers: make(map[string]map[uuid.UUID]Handler),
	}
}

// Endpoint derives the realtime endpoint from the API base URL.
func Endpoint(apiURL string) string {
	ws := strings.Replace(apiURL, "https://", "wss://", 1)
	ws = strings.Replace(ws, "http://", "ws://", 1)
	return strings.TrimRight(ws, "/") + "/ws"
}

// Connect dials the realtime endpoint. An already-open connection is torn
// down first; there is no connection reuse. Transport loss after a successful
// connect only flips the channel to disconnected; no retry loop runs here.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("realtime channel is closed")
	}
	if c.conn != nil {
		c.teardownLocked()
	}
	c.mu.Unlock()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	conn, resp, err := c.dialer.DialContext(ctx, c.endpoint, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("realtime dial failed: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return fmt.Errorf("realtime channel is closed")
	}
	// An overlapping Connect may have adopted a connection while we dialed;
	// it loses, its pumps are stopped before this one takes over.
	if c.conn != nil {
		c.teardownLocked()
	}
	c.conn = conn
	c.connected = true
	c.send = make(chan []byte, sendBuffer)
	c.stop = make(chan struct{})
	send, stop := c.send, c.stop
	c.mu.Unlock()

	log.Println("[realtime] connected")
	go c.readPump(conn)
	go c.writePump(conn, send, stop)
	return nil
}

// Connected reports whether the transport is currently up.
func (c *Channel) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close tears the connection down for good. A closed channel cannot be
// reconnected; the session constructs a fresh one instead.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.teardownLocked()
}

// OnAppForeground issues exactly one reconnect attempt when the app returns
// to the foreground while the transport is down. Nothing happens when the
// channel is connected or permanently closed.
func (c *Channel) OnAppForeground(ctx context.Context) {
	c.mu.RLock()
	needed := !c.connected && !c.closed
	c.mu.RUnlock()
	if !needed {
		return
	}

	log.Println("[realtime] app resumed, reconnecting")
	if err := c.Connect(ctx); err != nil {
		log.Printf("[realtime] resume reconnect failed: %v", err)
	}
}

// Subscribe registers a handler for one logical event name. The returned
// function removes only this handler; it is safe to call more than once and
// from inside the handler itself.
func (c *Channel) Subscribe(event string, handler Handler) func() {
	id := uuid.New()

	c.mu.Lock()
	if c.subscribers[event] == nil {
		c.subscribers[event] = make(map[uuid.UUID]Handler)
	}
	c.subscribers[event][id] = handler
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if handlers, ok := c.subscribers[event]; ok {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(c.subscribers, event)
			}
		}
	}
}

// Emit sends a fire-and-forget frame. While disconnected the frame is
// silently dropped: callers that need delivery guarantees use the
// request-response API instead.
func (c *Channel) Emit(event string, payload any) {
	c.mu.RLock()
	connected, send := c.connected, c.send
	c.mu.RUnlock()
	if !connected {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[realtime] failed to marshal %s payload: %v", event, err)
		return
	}
	frame, err := json.Marshal(Envelope{Event: event, Payload: body})
	if err != nil {
		log.Printf("[realtime] failed to marshal %s frame: %v", event, err)
		return
	}

	select {
	case send <- frame:
	default:
		// Buffer full; drop rather than block the caller
		log.Printf("[realtime] send buffer full, dropped %s", event)
	}
}

// readPump reads frames until the transport fails, dispatching each one to
// the subscribers of its event name in arrival order.
func (c *Channel) readPump(conn *websocket.Conn) {
	defer c.markDisconnected(conn)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[realtime] read error: %v", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			log.Printf("[realtime] dropped unparseable frame: %v", err)
			continue
		}
		c.dispatch(env)
	}
}

// dispatch calls every subscriber of the event with the payload. Handlers run
// on the read goroutine, so per-event order follows transport order; handlers
// are called outside the lock so they may unsubscribe themselves.
func (c *Channel) dispatch(env Envelope) {
	c.mu.RLock()
	handlers := make([]Handler, 0, len(c.subscribers[env.Event]))
	for _, h := range c.subscribers[env.Event] {
		handlers = append(handlers, h)
	}
	c.mu.RUnlock()

	for _, h := range handlers {
		h(env.Payload)
	}
}

// writePump drains the send buffer onto the wire and keeps the connection
// alive with periodic pings.
func (c *Channel) writePump(conn *websocket.Conn, send chan []byte, stop chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case frame, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-stop:
			return
		}
	}
}

// markDisconnected flips the channel state when the given connection dies,
// unless a newer connection already replaced it.
func (c *Channel) markDisconnected(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != conn {
		return
	}
	c.teardownLocked()
	log.Println("[realtime] disconnected")
}

func (c *Channel) teardownLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.send = nil
	c.connected = false
}
