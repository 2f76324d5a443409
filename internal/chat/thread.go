package chat

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/bramble-app/bramble-go/internal/api"
	"github.com/bramble-app/bramble-go/internal/realtime"
	apperrors "github.com/bramble-app/bramble-go/pkg/errors"
)

// Thread is one open conversation: its loaded messages, header metadata and
// typing state. Construct with NewThread, call Join to attach to the realtime
// channel, Close when leaving the conversation.
type Thread struct {
	client *api.Client
	rt     Realtime
	self   Identity
	id     string
	typist *Typist

	mu         sync.Mutex
	messages   []api.Message
	title      string
	convType   string
	peerTyping bool
	detach     []func()
}

func NewThread(client *api.Client, rt Realtime, self Identity, conversationID string) *Thread {
	return &Thread{
		client: client,
		rt:     rt,
		self:   self,
		id:     conversationID,
		typist: NewTypist(rt, conversationID),
		title:  "Chat",
	}
}

// Join announces the conversation to the server and subscribes to its
// message and typing events.
func (t *Thread) Join() {
	t.rt.JoinConversation(t.id)

	offMessages := t.rt.OnNewMessage(func(msg api.Message) {
		if msg.ConversationID != t.id {
			return
		}
		t.mu.Lock()
		t.messages = AppendUnique(t.messages, msg)
		t.peerTyping = false
		t.mu.Unlock()
	})

	offTyping := t.rt.OnTypingStatus(func(status realtime.TypingStatus) {
		if status.ConversationID != t.id {
			return
		}
		t.mu.Lock()
		t.peerTyping = status.IsTyping
		t.mu.Unlock()
	})

	t.mu.Lock()
	t.detach = append(t.detach, offMessages, offTyping)
	t.mu.Unlock()
}

// Load fetches one page of messages. Page 1 replaces the loaded list and
// refreshes the header metadata; later pages merge in. Fetch failures reset
// the list to empty rather than leaving it stale.
func (t *Thread) Load(ctx context.Context, page, limit int) []api.Message {
	resp, err := t.client.ListMessages(ctx, t.id, page, limit)
	if err != nil {
		log.Printf("[chat] failed to load messages: %v", err)
		t.mu.Lock()
		defer t.mu.Unlock()
		t.messages = nil
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if page <= 1 {
		t.messages = resp.Messages
		if conv := resp.Conversation; conv != nil {
			t.convType = conv.Type
			switch {
			case conv.Type == api.ConversationPrivate && conv.OtherUser != nil && conv.OtherUser.Username != "":
				t.title = "@" + conv.OtherUser.Username
			case conv.Type == api.ConversationPrivate && conv.OtherUser != nil:
				t.title = "Direct Message"
			case strings.TrimSpace(conv.Title) != "":
				t.title = conv.Title
			case conv.Type == api.ConversationGroup:
				t.title = "Group Chat"
			default:
				t.title = "Chat"
			}
		}
	} else {
		for _, msg := range resp.Messages {
			t.messages = AppendUnique(t.messages, msg)
		}
	}
	return t.snapshotLocked()
}

// Send delivers the trimmed content. While the realtime channel is up the
// message goes out as a fire-and-forget socket action and shows up locally
// via the server's new_message echo; while it is down the message goes
// through the request-response API and is merged in immediately. Both arrival
// paths run through AppendUnique, so a late echo of a fallback send is a
// no-op.
func (t *Thread) Send(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return apperrors.ErrEmptyMessage
	}

	t.typist.Sent()

	if t.rt.Connected() {
		t.rt.SendMessage(realtime.SendMessageParams{ConversationID: t.id, Content: content})
		return nil
	}

	created, err := t.client.CreateMessage(ctx, t.id, content)
	if err != nil {
		return err
	}
	if created.ID != "" {
		t.mu.Lock()
		t.messages = AppendUnique(t.messages, *created)
		t.mu.Unlock()
	}
	return nil
}

// Keystroke forwards an input change to the typing lifecycle.
func (t *Thread) Keystroke(text string) {
	t.typist.Keystroke(text)
}

// Messages returns a snapshot of the loaded messages.
func (t *Thread) Messages() []api.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Title returns the header display name.
func (t *Thread) Title() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.title
}

// Type returns the conversation type once page 1 has loaded.
func (t *Thread) Type() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.convType
}

// PeerTyping reports whether another participant is currently typing.
func (t *Thread) PeerTyping() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.peerTyping
}

// Close detaches the thread from the realtime channel and cancels any
// pending typing timer without emitting, so a stale typing_stop can never
// fire against a conversation the user already left.
func (t *Thread) Close() {
	t.typist.Cancel()

	t.mu.Lock()
	detach := t.detach
	t.detach = nil
	t.mu.Unlock()

	for _, off := range detach {
		off()
	}
}

func (t *Thread) snapshotLocked() []api.Message {
	out := make([]api.Message, len(t.messages))
	copy(out, t.messages)
	return out
}
