package learnsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ListSessions returns the caller's sessions, newest first, optionally
// narrowed by filter.
func (c *Client) ListSessions(ctx context.Context, filter SessionFilter) (*SessionList, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if !filter.From.IsZero() {
		query.Set("from", filter.From.UTC().Format(time.RFC3339))
	}
	if !filter.To.IsZero() {
		query.Set("to", filter.To.UTC().Format(time.RFC3339))
	}

	var list SessionList
	if err := c.doJSON(ctx, http.MethodGet, "/v1/sessions", query, nil, &list, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &list, nil
}

// BookSession books a tutoring session with the given tutor.
func (c *Client) BookSession(ctx context.Context, req BookSessionRequest) (*Session, error) {
	var session Session
	if err := c.doJSON(ctx, http.MethodPost, "/v1/sessions", nil, req, &session, http.StatusCreated, true); err != nil {
		return nil, err
	}
	return &session, nil
}

// CancelSession cancels a booked session.
func (c *Client) CancelSession(ctx context.Context, sessionID string) error {
	path := fmt.Sprintf("/v1/sessions/%s", url.PathEscape(sessionID))
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil, http.StatusNoContent, true)
}

// ListMessages returns the message thread for a session.
func (c *Client) ListMessages(ctx context.Context, sessionID string) (*MessageList, error) {
	path := fmt.Sprintf("/v1/sessions/%s/messages", url.PathEscape(sessionID))
	var list MessageList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &list, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetSession returns one of the caller's sessions.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	path := fmt.Sprintf("/v1/sessions/%s", url.PathEscape(sessionID))
	var session Session
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &session, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &session, nil
}

// ReviewSession rates a completed session. One review per session.
func (c *Client) ReviewSession(ctx context.Context, sessionID string, rating int, comment string) (*Review, error) {
	path := fmt.Sprintf("/v1/sessions/%s/review", url.PathEscape(sessionID))
	var review Review
	req := ReviewRequest{Rating: rating, Comment: comment}
	if err := c.doJSON(ctx, http.MethodPost, path, nil, req, &review, http.StatusCreated, true); err != nil {
		return nil, err
	}
	return &review, nil
}

// SendMessage posts a message to a session thread.
func (c *Client) SendMessage(ctx context.Context, sessionID, body string) (*Message, error) {
	path := fmt.Sprintf("/v1/sessions/%s/messages", url.PathEscape(sessionID))
	var msg Message
	req := SendMessageRequest{Body: body}
	if err := c.doJSON(ctx, http.MethodPost, path, nil, req, &msg, http.StatusCreated, true); err != nil {
		return nil, err
	}
	return &msg, nil
}
