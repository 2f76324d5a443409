package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bramble-app/bramble-go/internal/authtoken"
	apperrors "github.com/bramble-app/bramble-go/pkg/errors"
)

// TokenSource supplies the current session credential. An empty string means
// no session; only the session manager writes the credential, everyone else
// reads it through this interface.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-value TokenSource, mostly useful in tests.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// StatusError is returned when the API answers with a 4xx/5xx status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Body)
}

// Client is a wrapper around the remote social API.
// Every authorized call sends the current credential as a bearer token.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a new API client for the given base URL.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// do executes an HTTP request against the API and decodes the response into
// out (skipped when out is nil). Transport failures come back as
// CodeUnavailable, non-2xx statuses as *StatusError.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body any, authed bool, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	u := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if authed {
		token := authtoken.Normalize(c.tokens.Token())
		if token == "" {
			return apperrors.ErrNoCredential
		}
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.ErrRequestFailed(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.ErrRequestFailed(err)
	}

	if resp.StatusCode >= 400 {
		return &StatusError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// pageQuery builds the standard pagination query parameters.
func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("limit", fmt.Sprintf("%d", limit))
	return q
}
