// Package chat reconciles the conversation list and per-conversation message
// lists against realtime events and paginated fetches. All mutation paths go
// through the idempotent merge rule, so duplicated or racing deliveries
// (socket echo vs request-response fallback) never surface twice.
package chat

import (
	"strings"

	"github.com/bramble-app/bramble-go/internal/api"
	"github.com/bramble-app/bramble-go/internal/realtime"
)

// Identity exposes the local user's id; the session manager satisfies it.
type Identity interface {
	UserID() string
}

// Realtime is the slice of the realtime channel the chat layer consumes.
type Realtime interface {
	Connected() bool
	JoinConversation(conversationID string)
	SendMessage(params realtime.SendMessageParams)
	TypingStart(conversationID string)
	TypingStop(conversationID string)
	OnNewMessage(fn func(api.Message)) func()
	OnTypingStatus(fn func(realtime.TypingStatus)) func()
}

// AppendUnique returns list unchanged when a message with the same id is
// already present, else list with msg appended. Every insertion path uses it,
// which is the sole defense against the socket echo and the request-response
// fallback racing for the same logical send.
func AppendUnique(list []api.Message, msg api.Message) []api.Message {
	for _, existing := range list {
		if existing.ID == msg.ID {
			return list
		}
	}
	return append(list, msg)
}

// DisplayName derives a conversation's visible name.
func DisplayName(conv api.Conversation) string {
	if conv.Type == api.ConversationGroup {
		if title := strings.TrimSpace(conv.Title); title != "" {
			return title
		}
		return "Group Chat"
	}
	if conv.OtherUsername != "" {
		return "@" + conv.OtherUsername
	}
	return "Direct Message"
}

// Preview derives a conversation's last-message summary line.
func Preview(conv api.Conversation, selfID string) string {
	prefix := ""
	if conv.LastMessageSenderID != "" && selfID != "" && conv.LastMessageSenderID == selfID {
		prefix = "You: "
	}

	if text := strings.TrimSpace(conv.LastMessage); text != "" {
		return prefix + text
	}

	if conv.LastMessageMediaURL != "" {
		label := "Attachment"
		if conv.LastMessageType == "image" {
			label = "Photo"
		}
		return prefix + "[" + label + "]"
	}

	return "No messages yet"
}
