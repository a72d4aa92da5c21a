// Package client is a small consumer of the notification API: an HTTP client
// plus a polling loop that approximates real-time delivery for bell-icon UIs.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

type Notification struct {
	ID          uint64    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	RelatedType string    `json:"relatedType,omitempty"`
	RelatedID   *uint64   `json:"relatedId,omitempty"`
	Priority    string    `json:"priority"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type notificationsPage struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unreadCount"`
}

// Client talks to the notification API on behalf of one session. The bearer
// token is fixed for the client's lifetime; build a new client on re-login.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !env.Success {
		return fmt.Errorf("api: %s (status %d)", env.Message, resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// Notifications fetches the latest page plus the unread count.
func (c *Client) Notifications(ctx context.Context, limit int) ([]Notification, int64, error) {
	path := "/api/notifications"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var page notificationsPage
	if err := c.do(ctx, http.MethodGet, path, &page); err != nil {
		return nil, 0, err
	}
	return page.Notifications, page.UnreadCount, nil
}

func (c *Client) MarkRead(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", id), nil)
}

func (c *Client) Delete(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/notifications/%d", id), nil)
}
