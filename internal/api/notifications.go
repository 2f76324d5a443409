package api

import (
	"context"
	"net/http"
)

// ListNotifications fetches one page of the caller's notifications.
func (c *Client) ListNotifications(ctx context.Context, page, limit int) ([]Notification, error) {
	var notifications []Notification
	if err := c.do(ctx, http.MethodGet, "api/notifications", pageQuery(page, limit), nil, true, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// UnreadNotificationCount returns how many notifications are unread.
func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var resp struct {
		Count FlexInt `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "api/notifications/unread", nil, nil, true, &resp); err != nil {
		return 0, err
	}
	return int(resp.Count), nil
}

// MarkNotificationsRead marks the given notifications as read.
func (c *Client) MarkNotificationsRead(ctx context.Context, notificationIDs []string) error {
	body := map[string][]string{"notificationIds": notificationIDs}
	return c.do(ctx, http.MethodPost, "api/notifications/read", nil, body, true, nil)
}

// DeleteNotifications removes the given notifications.
func (c *Client) DeleteNotifications(ctx context.Context, notificationIDs []string) error {
	body := map[string][]string{"notificationIds": notificationIDs}
	return c.do(ctx, http.MethodDelete, "api/notifications", nil, body, true, nil)
}

// GetNotificationPreferences fetches the caller's per-kind delivery settings.
func (c *Client) GetNotificationPreferences(ctx context.Context) (NotificationPreferences, error) {
	var prefs NotificationPreferences
	if err := c.do(ctx, http.MethodGet, "api/notifications/preferences", nil, nil, true, &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// UpdateNotificationPreferences replaces the caller's delivery settings.
func (c *Client) UpdateNotificationPreferences(ctx context.Context, prefs NotificationPreferences) error {
	body := map[string]NotificationPreferences{"preferences": prefs}
	return c.do(ctx, http.MethodPut, "api/notifications/preferences", nil, body, true, nil)
}
