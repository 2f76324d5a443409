package api

import (
	"context"
	"net/http"
	"net/url"
)

// Login authenticates with email and password. The returned token is raw:
// callers are expected to hand it to the session manager, which normalizes
// and persists it.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "api/users/login", nil, req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account; the account stays pending until the OTP from
// the response is verified.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.do(ctx, http.MethodPost, "api/users/register", nil, req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyOTP confirms a registration and yields the session token.
func (c *Client) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*VerifyOTPResponse, error) {
	var resp VerifyOTPResponse
	if err := c.do(ctx, http.MethodPost, "api/users/verify-otp", nil, req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateToken asks the backend whether a token is still good.
func (c *Client) ValidateToken(ctx context.Context, token string) error {
	body := map[string]string{"token": token}
	return c.do(ctx, http.MethodPost, "api/users/verify-token", nil, body, true, nil)
}

// SearchUsers finds users matching a free-text query.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, error) {
	q := url.Values{}
	q.Set("query", query)
	var users []User
	if err := c.do(ctx, http.MethodGet, "api/users/search", q, nil, true, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetProfile fetches a user's public profile.
func (c *Client) GetProfile(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "api/users/profile/"+userID, nil, nil, true, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
