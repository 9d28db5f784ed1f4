package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/edumentor/learnconnect/internal/server/service"
	"github.com/edumentor/learnconnect/pkg/httpx"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients are out of scope; the SDK dials with a bearer header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotificationsHandler upgrades to a websocket and streams the user's live
// notifications until the client disconnects.
type NotificationsHandler struct {
	Hub    *service.NotificationHub
	Logger *slog.Logger
}

func (h *NotificationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.Logger.Warn("websocket upgrade failed", "error", err, "user_id", userID)
		return
	}
	defer conn.Close()

	events, cancel := h.Hub.Subscribe(userID)
	defer cancel()

	// Reader goroutine: we never expect client frames, but reading is what
	// surfaces close frames and connection drops.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case n := <-events:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(n); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
