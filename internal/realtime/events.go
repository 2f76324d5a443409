package realtime

import (
	"encoding/json"

	"github.com/bramble-app/bramble-go/internal/api"
)

// Server-pushed event names.
const (
	EventNewMessage            = "new_message"
	EventTypingStatus          = "typing_status"
	EventFriendRequest         = "friend_request"
	EventFriendRequestAccepted = "friend_request_accepted"
	EventFriendRequestRejected = "friend_request_rejected"
	EventFriendRemoved         = "friend_removed"
	EventFriendBlocked         = "friend_blocked"
)

// Client-emitted action names.
const (
	ActionJoinConversation = "join_conversation"
	ActionSendMessage      = "send_message"
	ActionTypingStart      = "typing_start"
	ActionTypingStop       = "typing_stop"
)

// Envelope is the wire format of every frame in both directions.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// TypingStatus reports another participant starting or stopping typing.
type TypingStatus struct {
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId"`
	IsTyping       bool   `json:"isTyping"`
}

// FriendRequest is the payload of a friend_request event.
type FriendRequest struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	FriendUsername string `json:"friend_username"`
	AvatarURL      string `json:"avatar_url,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// FriendEvent is the payload of the accepted/rejected/removed/blocked events.
type FriendEvent struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	FriendUsername string `json:"friend_username"`
	AvatarURL      string `json:"avatar_url,omitempty"`
}

// SendMessageParams is the payload of the send_message action.
type SendMessageParams struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
	Type           string `json:"type,omitempty"`
	MediaURL       string `json:"mediaUrl,omitempty"`
}

type conversationRef struct {
	ConversationID string `json:"conversationId"`
}

// OnNewMessage subscribes a typed handler for incoming chat messages.
// The returned function removes exactly this subscription.
func (c *Channel) OnNewMessage(fn func(api.Message)) func() {
	return c.Subscribe(EventNewMessage, func(payload json.RawMessage) {
		var msg api.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			return
		}
		fn(msg)
	})
}

// OnTypingStatus subscribes a typed handler for typing updates.
func (c *Channel) OnTypingStatus(fn func(TypingStatus)) func() {
	return c.Subscribe(EventTypingStatus, func(payload json.RawMessage) {
		var status TypingStatus
		if err := json.Unmarshal(payload, &status); err != nil {
			return
		}
		fn(status)
	})
}

// OnFriendRequest subscribes a typed handler for incoming friend requests.
func (c *Channel) OnFriendRequest(fn func(FriendRequest)) func() {
	return c.Subscribe(EventFriendRequest, func(payload json.RawMessage) {
		var req FriendRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return
		}
		fn(req)
	})
}

// OnFriendEvent subscribes a typed handler for one of the friend-relationship
// events (accepted, rejected, removed, blocked).
func (c *Channel) OnFriendEvent(event string, fn func(FriendEvent)) func() {
	return c.Subscribe(event, func(payload json.RawMessage) {
		var ev FriendEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return
		}
		fn(ev)
	})
}

// JoinConversation asks the server to route a conversation's events here.
func (c *Channel) JoinConversation(conversationID string) {
	c.Emit(ActionJoinConversation, conversationRef{ConversationID: conversationID})
}

// SendMessage emits a fire-and-forget chat message. Delivery shows up later
// as a new_message echo; nothing is awaited here.
func (c *Channel) SendMessage(params SendMessageParams) {
	c.Emit(ActionSendMessage, params)
}

// TypingStart signals the local user started typing in a conversation.
func (c *Channel) TypingStart(conversationID string) {
	c.Emit(ActionTypingStart, conversationRef{ConversationID: conversationID})
}

// TypingStop signals the local user stopped typing in a conversation.
func (c *Channel) TypingStop(conversationID string) {
	c.Emit(ActionTypingStop, conversationRef{ConversationID: conversationID})
}
