package api

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "github.com/bramble-app/bramble-go/pkg/errors"
)

// CreateConversation starts a new private or group conversation.
func (c *Client) CreateConversation(ctx context.Context, req CreateConversationRequest) (*Conversation, error) {
	var conv Conversation
	if err := c.do(ctx, http.MethodPost, "api/messages/conversations", nil, req, true, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations fetches one page of the conversation list.
func (c *Client) ListConversations(ctx context.Context, page, limit int) ([]Conversation, error) {
	var convs []Conversation
	if err := c.do(ctx, http.MethodGet, "api/messages/conversations", pageQuery(page, limit), nil, true, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

// ListMessages fetches one page of a conversation's messages. The backend may
// answer with either a bare message array or a {messages, conversation}
// object; both are normalized into a MessagesPage.
func (c *Client) ListMessages(ctx context.Context, conversationID string, page, limit int) (*MessagesPage, error) {
	if conversationID == "" {
		return nil, apperrors.ErrConversationID
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "api/messages/conversations/"+conversationID, pageQuery(page, limit), nil, true, &raw); err != nil {
		return nil, err
	}

	var messages []Message
	if err := json.Unmarshal(raw, &messages); err == nil {
		return &MessagesPage{Messages: messages}, nil
	}

	var pageResp MessagesPage
	if err := json.Unmarshal(raw, &pageResp); err != nil {
		return nil, err
	}
	return &pageResp, nil
}

// CreateMessage sends a message through the request-response path. This is the
// fallback used when the realtime channel is down; the normal path is the
// socket's send_message action.
func (c *Client) CreateMessage(ctx context.Context, conversationID, content string) (*Message, error) {
	if conversationID == "" {
		return nil, apperrors.ErrConversationID
	}
	body := map[string]string{"content": content}
	var msg Message
	if err := c.do(ctx, http.MethodPost, "api/messages/conversations/"+conversationID, nil, body, true, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteMessage removes one of the caller's own messages.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	return c.do(ctx, http.MethodDelete, "api/messages/"+messageID, nil, nil, true, nil)
}

// UnreadCounts returns the per-conversation unread counters.
func (c *Client) UnreadCounts(ctx context.Context) (map[string]int, error) {
	var raw map[string]FlexInt
	if err := c.do(ctx, http.MethodGet, "api/messages/unread", nil, nil, true, &raw); err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(raw))
	for id, n := range raw {
		counts[id] = int(n)
	}
	return counts, nil
}
