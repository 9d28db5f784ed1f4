package learnsdk

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// NotificationStream is a live feed of server-pushed notifications for the
// authenticated user. Events arrives on Events until the stream is closed or
// the connection drops, at which point Events is closed and Err reports why.
type NotificationStream struct {
	conn   *websocket.Conn
	events chan Notification
	done   chan struct{}
	err    error
}

// Events delivers notifications in arrival order.
func (s *NotificationStream) Events() <-chan Notification { return s.events }

// Err returns the terminal error after Events is closed. Nil after a clean
// Close.
func (s *NotificationStream) Err() error {
	<-s.done
	return s.err
}

// Close tears down the websocket connection.
func (s *NotificationStream) Close() error {
	return s.conn.Close()
}

// StreamNotifications opens the notification websocket for the current user.
// The caller must Close the returned stream.
func (c *Client) StreamNotifications(ctx context.Context) (*NotificationStream, error) {
	wsURL := strings.Replace(c.url("/v1/ws/notifications"), "http", "ws", 1)

	header := http.Header{}
	if token := c.accessToken(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, normalizeErrorResponse(resp.StatusCode, nil)
		}
		return nil, networkError(err)
	}

	stream := &NotificationStream{
		conn:   conn,
		events: make(chan Notification, 16),
		done:   make(chan struct{}),
	}
	go stream.readLoop()

	return stream, nil
}

func (s *NotificationStream) readLoop() {
	defer close(s.events)
	defer close(s.done)

	for {
		var n Notification
		if err := s.conn.ReadJSON(&n); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.err = err
			}
			return
		}
		s.events <- n
	}
}
