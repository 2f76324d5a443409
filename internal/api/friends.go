package api

import (
	"context"
	"fmt"
	"net/http"
)

// GetFriends fetches the caller's accepted friendships.
func (c *Client) GetFriends(ctx context.Context) ([]Friend, error) {
	var friends []Friend
	if err := c.do(ctx, http.MethodGet, "api/friends", nil, nil, true, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

// GetFriendRequests fetches the caller's pending incoming requests.
func (c *Client) GetFriendRequests(ctx context.Context) ([]FriendRequest, error) {
	var requests []FriendRequest
	if err := c.do(ctx, http.MethodGet, "api/friends/requests", nil, nil, true, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// SendFriendRequest sends a request to another user.
func (c *Client) SendFriendRequest(ctx context.Context, receiverID string) error {
	body := map[string]string{"receiverId": receiverID}
	return c.do(ctx, http.MethodPost, "api/friends/request", nil, body, true, nil)
}

// AcceptFriendRequest accepts a pending request by its id.
func (c *Client) AcceptFriendRequest(ctx context.Context, requestID string) error {
	endpoint := fmt.Sprintf("api/friends/request/%s/accept", requestID)
	return c.do(ctx, http.MethodPost, endpoint, nil, struct{}{}, true, nil)
}

// RejectFriendRequest rejects a pending request by its id.
func (c *Client) RejectFriendRequest(ctx context.Context, requestID string) error {
	endpoint := fmt.Sprintf("api/friends/request/%s/reject", requestID)
	return c.do(ctx, http.MethodPost, endpoint, nil, struct{}{}, true, nil)
}

// RemoveFriend dissolves a friendship by its id.
func (c *Client) RemoveFriend(ctx context.Context, friendshipID string) error {
	return c.do(ctx, http.MethodDelete, "api/friends/"+friendshipID, nil, nil, true, nil)
}

// BlockFriend blocks the other side of a friendship.
func (c *Client) BlockFriend(ctx context.Context, friendshipID string) error {
	endpoint := fmt.Sprintf("api/friends/%s/block", friendshipID)
	return c.do(ctx, http.MethodPost, endpoint, nil, struct{}{}, true, nil)
}

// CheckFriendshipStatus reports the relationship between the caller and
// another user.
func (c *Client) CheckFriendshipStatus(ctx context.Context, otherUserID string) (*FriendshipStatus, error) {
	var status FriendshipStatus
	if err := c.do(ctx, http.MethodGet, "api/friends/status/"+otherUserID, nil, nil, true, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
