package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bramble-app/bramble-go/internal/api"
	"github.com/bramble-app/bramble-go/internal/realtime"
)

type staticIdentity string

func (s staticIdentity) UserID() string { return string(s) }

// fakeRealtime records outgoing actions and lets tests inject incoming events.
type fakeRealtime struct {
	mu        sync.Mutex
	connected bool
	joined    []string
	sent      []realtime.SendMessageParams
	starts    []string
	stops     []string

	nextID    int
	onMessage map[int]func(api.Message)
	onTyping  map[int]func(realtime.TypingStatus)
}

func newFakeRealtime(connected bool) *fakeRealtime {
	return &fakeRealtime{
		connected: connected,
		onMessage: make(map[int]func(api.Message)),
		onTyping:  make(map[int]func(realtime.TypingStatus)),
	}
}

func (f *fakeRealtime) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeRealtime) JoinConversation(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined = append(f.joined, id)
}

func (f *fakeRealtime) SendMessage(params realtime.SendMessageParams) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params)
}

func (f *fakeRealtime) TypingStart(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, id)
}

func (f *fakeRealtime) TypingStop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops = append(f.stops, id)
}

func (f *fakeRealtime) OnNewMessage(fn func(api.Message)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.onMessage[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.onMessage, id)
	}
}

func (f *fakeRealtime) OnTypingStatus(fn func(realtime.TypingStatus)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.onTyping[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.onTyping, id)
	}
}

func (f *fakeRealtime) deliver(msg api.Message) {
	f.mu.Lock()
	handlers := make([]func(api.Message), 0, len(f.onMessage))
	for _, fn := range f.onMessage {
		handlers = append(handlers, fn)
	}
	f.mu.Unlock()
	for _, fn := range handlers {
		fn(msg)
	}
}

func (f *fakeRealtime) deliverTyping(status realtime.TypingStatus) {
	f.mu.Lock()
	handlers := make([]func(realtime.TypingStatus), 0, len(f.onTyping))
	for _, fn := range f.onTyping {
		handlers = append(handlers, fn)
	}
	f.mu.Unlock()
	for _, fn := range handlers {
		fn(status)
	}
}

func (f *fakeRealtime) typingSignals() (starts, stops []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.starts...), append([]string(nil), f.stops...)
}

func newAPIClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, api.StaticToken("tok"), 5*time.Second)
}

func writeJSONResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(req *http.Request, v any) error {
	return json.NewDecoder(req.Body).Decode(v)
}

func TestAppendUnique(t *testing.T) {
	list := []api.Message{{ID: "m1", Body: "one"}}

	list = AppendUnique(list, api.Message{ID: "m2", Body: "two"})
	assert.Len(t, list, 2)

	// The socket echo of an already-appended message is a no-op
	list = AppendUnique(list, api.Message{ID: "m2", Body: "two again"})
	assert.Len(t, list, 2)
	assert.Equal(t, "two", list[1].Body)
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name string
		conv api.Conversation
		want string
	}{
		{"group with title", api.Conversation{Type: api.ConversationGroup, Title: " Hiking crew "}, "Hiking crew"},
		{"group without title", api.Conversation{Type: api.ConversationGroup, Title: "  "}, "Group Chat"},
		{"private with username", api.Conversation{Type: api.ConversationPrivate, OtherUsername: "ada"}, "@ada"},
		{"private without username", api.Conversation{Type: api.ConversationPrivate}, "Direct Message"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DisplayName(tc.conv))
		})
	}
}

func TestPreview(t *testing.T) {
	cases := []struct {
		name string
		conv api.Conversation
		self string
		want string
	}{
		{"text from peer", api.Conversation{LastMessage: "hey", LastMessageSenderID: "u2"}, "u1", "hey"},
		{"text from self", api.Conversation{LastMessage: "hey", LastMessageSenderID: "u1"}, "u1", "You: hey"},
		{"image without text", api.Conversation{LastMessageMediaURL: "https://cdn/x.jpg", LastMessageType: "image"}, "u1", "[Photo]"},
		{"other media", api.Conversation{LastMessageMediaURL: "https://cdn/x.bin"}, "u1", "[Attachment]"},
		{"empty", api.Conversation{}, "u1", "No messages yet"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Preview(tc.conv, tc.self))
		})
	}
}
