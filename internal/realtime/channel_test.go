package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bramble-app/bramble-go/internal/api"
)

// wsHarness is a minimal websocket peer: it records the handshake auth
// header, collects inbound frames, and lets tests push frames to the client.
type wsHarness struct {
	t        *testing.T
	srv      *httptest.Server
	upgrader websocket.Upgrader
	inbound  chan Envelope

	mu       sync.Mutex
	auth     []string
	conns    []*websocket.Conn
	holdNext chan struct{}
}

func newWSHarness(t *testing.T) *wsHarness {
	t.Helper()
	h := &wsHarness{t: t, inbound: make(chan Envelope, 16)}
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.auth = append(h.auth, r.Header.Get("Authorization"))
		hold := h.holdNext
		h.holdNext = nil
		h.mu.Unlock()
		if hold != nil {
			<-hold
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.mu.Lock()
		h.conns = append(h.conns, conn)
		h.mu.Unlock()

		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var env Envelope
			if err := json.Unmarshal(frame, &env); err != nil {
				continue
			}
			h.inbound <- env
		}
	}))
	t.Cleanup(h.srv.Close)
	return h
}

func (h *wsHarness) endpoint() string {
	return Endpoint(h.srv.URL)
}

// push writes one frame to the most recently connected client.
func (h *wsHarness) push(event string, payload any) {
	h.t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(h.t, err)
	frame, err := json.Marshal(Envelope{Event: event, Payload: body})
	require.NoError(h.t, err)

	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(h.t, h.conns, "no client connected")
	conn := h.conns[len(h.conns)-1]
	require.NoError(h.t, conn.WriteMessage(websocket.TextMessage, frame))
}

// holdNextHandshake parks the next handshake until release is closed.
func (h *wsHarness) holdNextHandshake(release chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.holdNext = release
}

// pushTo writes one frame to the n-th server-side connection, ignoring write
// failures on connections whose peer is already gone.
func (h *wsHarness) pushTo(n int, event string, payload any) {
	h.t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(h.t, err)
	frame, err := json.Marshal(Envelope{Event: event, Payload: body})
	require.NoError(h.t, err)

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Greater(h.t, len(h.conns), n, "no such connection")
	_ = h.conns[n].WriteMessage(websocket.TextMessage, frame)
}

// dropConns closes every server-side connection, simulating transport loss.
func (h *wsHarness) dropConns() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conn := range h.conns {
		conn.Close()
	}
	h.conns = nil
}

func (h *wsHarness) handshakes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.auth)
}

func (h *wsHarness) receive() Envelope {
	h.t.Helper()
	select {
	case env := <-h.inbound:
		return env
	case <-time.After(2 * time.Second):
		h.t.Fatal("timed out waiting for a frame")
		return Envelope{}
	}
}

func connectedChannel(t *testing.T, h *wsHarness) *Channel {
	t.Helper()
	c := NewChannel(h.endpoint(), "tok-123")
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(c.Close)
	return c
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "ws://localhost:5001/ws", Endpoint("http://localhost:5001"))
	assert.Equal(t, "wss://api.example.com/ws", Endpoint("https://api.example.com/"))
}

func TestConnectSendsBearerToken(t *testing.T) {
	h := newWSHarness(t)
	c := connectedChannel(t, h)

	assert.True(t, c.Connected())
	h.mu.Lock()
	auth := append([]string(nil), h.auth...)
	h.mu.Unlock()
	require.Len(t, auth, 1)
	assert.Equal(t, "Bearer tok-123", auth[0])
}

func TestEmitDeliversFrames(t *testing.T) {
	h := newWSHarness(t)
	c := connectedChannel(t, h)

	c.JoinConversation("c1")
	env := h.receive()
	assert.Equal(t, ActionJoinConversation, env.Event)
	assert.JSONEq(t, `{"conversationId":"c1"}`, string(env.Payload))

	c.SendMessage(SendMessageParams{ConversationID: "c1", Content: "hello"})
	env = h.receive()
	assert.Equal(t, ActionSendMessage, env.Event)
	assert.JSONEq(t, `{"conversationId":"c1","content":"hello"}`, string(env.Payload))

	c.TypingStart("c1")
	assert.Equal(t, ActionTypingStart, h.receive().Event)
	c.TypingStop("c1")
	assert.Equal(t, ActionTypingStop, h.receive().Event)
}

func TestEmitWhileDisconnectedIsDropped(t *testing.T) {
	c := NewChannel("ws://localhost:1/ws", "tok")
	// Never connected: emits are silent no-ops
	c.JoinConversation("c1")
	c.SendMessage(SendMessageParams{ConversationID: "c1", Content: "lost"})
	assert.False(t, c.Connected())
}

func TestSubscribersAreIndependent(t *testing.T) {
	h := newWSHarness(t)
	c := connectedChannel(t, h)

	var mu sync.Mutex
	var first, second []string
	offFirst := c.OnNewMessage(func(msg api.Message) {
		mu.Lock()
		first = append(first, msg.ID)
		mu.Unlock()
	})
	c.OnNewMessage(func(msg api.Message) {
		mu.Lock()
		second = append(second, msg.ID)
		mu.Unlock()
	})

	h.push(EventNewMessage, api.Message{ID: "m1", ConversationID: "c1"})
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(first) == 1 && len(second) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Removing one subscription leaves the other attached
	offFirst()
	offFirst() // second call is a no-op

	h.push(EventNewMessage, api.Message{ID: "m2", ConversationID: "c1"})
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(second) == 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"m1"}, first)
	assert.Equal(t, []string{"m1", "m2"}, second)
}

func TestUnsubscribeFromInsideHandler(t *testing.T) {
	h := newWSHarness(t)
	c := connectedChannel(t, h)

	var mu sync.Mutex
	var once, marker []string
	var off func()
	off = c.OnNewMessage(func(msg api.Message) {
		mu.Lock()
		once = append(once, msg.ID)
		mu.Unlock()
		off()
	})
	c.OnNewMessage(func(msg api.Message) {
		mu.Lock()
		marker = append(marker, msg.ID)
		mu.Unlock()
	})

	h.push(EventNewMessage, api.Message{ID: "m1", ConversationID: "c1"})
	h.push(EventNewMessage, api.Message{ID: "m2", ConversationID: "c1"})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(marker) == 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"m1"}, once, "handler removed itself after the first delivery")
	assert.Equal(t, []string{"m1", "m2"}, marker)
}

func TestOverlappingConnectKeepsOneConnection(t *testing.T) {
	h := newWSHarness(t)
	release := make(chan struct{})
	h.holdNextHandshake(release)

	c := NewChannel(h.endpoint(), "tok")
	t.Cleanup(c.Close)

	// First dial parks in its handshake while a second Connect wins the race
	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Connect(context.Background()) }()
	require.Eventually(t, func() bool { return h.handshakes() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, c.Connect(context.Background()))
	close(release)
	require.NoError(t, <-firstDone)
	require.True(t, c.Connected())

	var mu sync.Mutex
	var got []string
	c.OnNewMessage(func(msg api.Message) {
		mu.Lock()
		got = append(got, msg.ID)
		mu.Unlock()
	})

	// The overwritten connection was torn down: its peer can no longer
	// deliver events
	h.pushTo(0, EventNewMessage, api.Message{ID: "stale", ConversationID: "c1"})
	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	assert.Empty(t, got)
	mu.Unlock()

	h.push(EventNewMessage, api.Message{ID: "fresh", ConversationID: "c1"})
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == "fresh"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTypedSubscriptions(t *testing.T) {
	h := newWSHarness(t)
	c := connectedChannel(t, h)

	var mu sync.Mutex
	var typing []TypingStatus
	var requests []FriendRequest
	var accepted []FriendEvent
	c.OnTypingStatus(func(s TypingStatus) {
		mu.Lock()
		typing = append(typing, s)
		mu.Unlock()
	})
	c.OnFriendRequest(func(r FriendRequest) {
		mu.Lock()
		requests = append(requests, r)
		mu.Unlock()
	})
	c.OnFriendEvent(EventFriendRequestAccepted, func(e FriendEvent) {
		mu.Lock()
		accepted = append(accepted, e)
		mu.Unlock()
	})

	h.push(EventTypingStatus, TypingStatus{UserID: "u2", ConversationID: "c1", IsTyping: true})
	h.push(EventFriendRequest, FriendRequest{ID: "fr1", FriendUsername: "ada"})
	h.push(EventFriendRequestAccepted, FriendEvent{ID: "fr2", FriendUsername: "lin"})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(typing) == 1 && len(requests) == 1 && len(accepted) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, TypingStatus{UserID: "u2", ConversationID: "c1", IsTyping: true}, typing[0])
	assert.Equal(t, "ada", requests[0].FriendUsername)
	assert.Equal(t, "lin", accepted[0].FriendUsername)
}

func TestTransportLossFlipsDisconnected(t *testing.T) {
	h := newWSHarness(t)
	c := connectedChannel(t, h)
	require.True(t, c.Connected())

	h.dropConns()
	assert.Eventually(t, func() bool { return !c.Connected() }, 2*time.Second, 10*time.Millisecond)

	// Frames emitted while down are dropped without blocking
	c.SendMessage(SendMessageParams{ConversationID: "c1", Content: "lost"})
}

func TestForegroundReconnect(t *testing.T) {
	h := newWSHarness(t)
	c := connectedChannel(t, h)

	// Connected: resume is a no-op
	c.OnAppForeground(context.Background())
	assert.Equal(t, 1, h.handshakes())

	h.dropConns()
	assert.Eventually(t, func() bool { return !c.Connected() }, 2*time.Second, 10*time.Millisecond)

	c.OnAppForeground(context.Background())
	assert.True(t, c.Connected())
	assert.Equal(t, 2, h.handshakes())
}

func TestCloseIsPermanent(t *testing.T) {
	h := newWSHarness(t)
	c := connectedChannel(t, h)

	c.Close()
	assert.False(t, c.Connected())

	c.OnAppForeground(context.Background())
	assert.False(t, c.Connected())
	assert.Equal(t, 1, h.handshakes())

	err := c.Connect(context.Background())
	require.Error(t, err)
}
