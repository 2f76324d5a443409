package chat

import (
	"context"
	"log"
	"sync"

	"github.com/bramble-app/bramble-go/internal/api"
)

const defaultPageLimit = 50

// Inbox is the live conversation list. It holds the only visible copy of the
// list: exactly one entry per conversation id, most-recently-active first.
type Inbox struct {
	client *api.Client
	self   Identity

	mu            sync.Mutex
	conversations []api.Conversation
	active        string
	limit         int
	reloading     bool
}

func NewInbox(client *api.Client, self Identity) *Inbox {
	return &Inbox{client: client, self: self, limit: defaultPageLimit}
}

// Start subscribes the inbox to incoming-message events. The returned
// function detaches it again.
func (in *Inbox) Start(rt Realtime) func() {
	return rt.OnNewMessage(in.HandleIncoming)
}

// Load fetches one page of conversations. Page 1 replaces the list
// wholesale; later pages append. Fetch failures are absorbed: the list is
// reset to empty rather than left stale, and the error is logged.
func (in *Inbox) Load(ctx context.Context, page, limit int) []api.Conversation {
	if limit <= 0 {
		limit = defaultPageLimit
	}

	conversations, err := in.client.ListConversations(ctx, page, limit)
	if err != nil {
		log.Printf("[chat] failed to load conversations: %v", err)
		conversations = nil
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	in.limit = limit
	if page <= 1 || err != nil {
		in.conversations = conversations
	} else {
		// Later pages append, keeping the one-entry-per-id invariant when a
		// page boundary shifted under us.
		seen := make(map[string]bool, len(in.conversations))
		for _, conv := range in.conversations {
			seen[conv.ID] = true
		}
		for _, conv := range conversations {
			if !seen[conv.ID] {
				in.conversations = append(in.conversations, conv)
			}
		}
	}
	return in.snapshotLocked()
}

// HandleIncoming applies one new-message event to the list. A message for a
// conversation the list does not know triggers a full first-page reload (new
// conversations arrive without their own event); a known conversation gets
// its preview refreshed, its unread counter bumped per the rules, and moves
// to the front.
func (in *Inbox) HandleIncoming(msg api.Message) {
	if msg.ConversationID == "" {
		return
	}

	in.mu.Lock()

	index := -1
	for i := range in.conversations {
		if in.conversations[i].ID == msg.ConversationID {
			index = i
			break
		}
	}

	if index == -1 {
		// Unknown conversation: no partial patch, reload the list. The fetch
		// must not run on the event-delivery goroutine's lock.
		if !in.reloading {
			in.reloading = true
			limit := in.limit
			go func() {
				defer func() {
					in.mu.Lock()
					in.reloading = false
					in.mu.Unlock()
				}()
				in.Load(context.Background(), 1, limit)
			}()
		}
		in.mu.Unlock()
		return
	}

	conv := in.conversations[index]
	if msg.Body != "" {
		conv.LastMessage = msg.Body
	}
	if msg.Type != "" {
		conv.LastMessageType = msg.Type
	} else if conv.LastMessageType == "" {
		conv.LastMessageType = "text"
	}
	if msg.MediaURL != "" {
		conv.LastMessageMediaURL = msg.MediaURL
	}
	if msg.SenderID != "" {
		conv.LastMessageSenderID = msg.SenderID
	}
	if msg.CreatedAt != "" {
		conv.LastMessageCreatedAt = msg.CreatedAt
		conv.LastMessageAt = msg.CreatedAt
		conv.UpdatedAt = msg.CreatedAt
	}

	mine := in.self != nil && in.self.UserID() != "" && msg.SenderID == in.self.UserID()
	open := in.active == conv.ID
	if !mine && !open {
		conv.UnreadCount++
	}

	// Move to front
	in.conversations = append(in.conversations[:index], in.conversations[index+1:]...)
	in.conversations = append([]api.Conversation{conv}, in.conversations...)
	in.mu.Unlock()
}

// SetActive marks a conversation as open: its unread counter resets to zero
// and stays suppressed while it remains active.
func (in *Inbox) SetActive(conversationID string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.active = conversationID
	for i := range in.conversations {
		if in.conversations[i].ID == conversationID {
			in.conversations[i].UnreadCount = 0
			return
		}
	}
}

// ClearActive marks no conversation as open.
func (in *Inbox) ClearActive() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.active = ""
}

// Conversations returns a snapshot of the current list.
func (in *Inbox) Conversations() []api.Conversation {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.snapshotLocked()
}

func (in *Inbox) snapshotLocked() []api.Conversation {
	out := make([]api.Conversation, len(in.conversations))
	copy(out, in.conversations)
	return out
}
