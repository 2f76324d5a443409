package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListComments fetches one page of a post's comments.
func (c *Client) ListComments(ctx context.Context, postID string, page, limit int) ([]Comment, error) {
	endpoint := fmt.Sprintf("api/posts/%s/comments", postID)
	var comments []Comment
	if err := c.do(ctx, http.MethodGet, endpoint, pageQuery(page, limit), nil, true, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment adds a comment to a post.
func (c *Client) CreateComment(ctx context.Context, postID, content string) (*Comment, error) {
	endpoint := fmt.Sprintf("api/posts/%s/comments", postID)
	body := map[string]string{"content": content}
	var comment Comment
	if err := c.do(ctx, http.MethodPost, endpoint, nil, body, true, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListReplies fetches one page of a comment's replies.
func (c *Client) ListReplies(ctx context.Context, commentID string, page, limit int) ([]Comment, error) {
	endpoint := fmt.Sprintf("api/comments/%s/replies", commentID)
	var replies []Comment
	if err := c.do(ctx, http.MethodGet, endpoint, pageQuery(page, limit), nil, true, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// CreateReply adds a reply under a comment.
func (c *Client) CreateReply(ctx context.Context, commentID, content string) (*Comment, error) {
	endpoint := fmt.Sprintf("api/comments/%s/replies", commentID)
	body := map[string]string{"content": content}
	var reply Comment
	if err := c.do(ctx, http.MethodPost, endpoint, nil, body, true, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ListReelComments fetches one page of a reel's comments.
func (c *Client) ListReelComments(ctx context.Context, reelID string, page, limit int) ([]Comment, error) {
	endpoint := fmt.Sprintf("api/reels/%s/comments", reelID)
	var comments []Comment
	if err := c.do(ctx, http.MethodGet, endpoint, pageQuery(page, limit), nil, true, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateReelComment adds a comment to a reel.
func (c *Client) CreateReelComment(ctx context.Context, reelID, content string) (*Comment, error) {
	endpoint := fmt.Sprintf("api/reels/%s/comments", reelID)
	body := map[string]string{"content": content}
	var comment Comment
	if err := c.do(ctx, http.MethodPost, endpoint, nil, body, true, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
