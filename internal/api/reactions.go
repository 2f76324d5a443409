package api

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/bramble-app/bramble-go/pkg/errors"
)

// ContentType enumerates the kinds of content that can carry reactions.
type ContentType string

const (
	ContentPost    ContentType = "post"
	ContentComment ContentType = "comment"
	ContentStory   ContentType = "story"
	ContentReel    ContentType = "reel"
)

// ReactionKind values the backend understands.
const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionHaha  = "haha"
	ReactionWow   = "wow"
	ReactionSad   = "sad"
	ReactionAngry = "angry"
)

// GetReactions fetches the reaction summary for one content item.
func (c *Client) GetReactions(ctx context.Context, contentType ContentType, contentID string) (*ReactionSummary, error) {
	endpoint := fmt.Sprintf("api/reactions/%s/%s", contentType, contentID)
	var summary ReactionSummary
	if err := c.do(ctx, http.MethodGet, endpoint, nil, nil, true, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SetReaction records the caller's reaction on a content item, replacing any
// prior one. Each content type has its own resource route.
func (c *Client) SetReaction(ctx context.Context, contentType ContentType, contentID, kind string) error {
	var endpoint string
	switch contentType {
	case ContentPost:
		endpoint = fmt.Sprintf("api/posts/%s/reactions", contentID)
	case ContentComment:
		endpoint = fmt.Sprintf("api/comments/%s/reactions", contentID)
	case ContentStory:
		endpoint = fmt.Sprintf("api/stories/%s/reactions", contentID)
	case ContentReel:
		endpoint = fmt.Sprintf("api/reels/%s/reactions", contentID)
	default:
		return apperrors.InvalidArg(fmt.Sprintf("unknown content type %q", contentType))
	}

	body := map[string]string{"type": kind}
	return c.do(ctx, http.MethodPost, endpoint, nil, body, true, nil)
}

// RemoveReaction deletes the caller's reaction from a content item.
func (c *Client) RemoveReaction(ctx context.Context, contentType ContentType, contentID string) error {
	endpoint := fmt.Sprintf("api/reactions/%s/%s", contentType, contentID)
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil, true, nil)
}
