package service

import (
	"sync"
	"time"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/pkg/idx"
)

// subscriberBuffer is the per-connection channel depth. A subscriber that
// falls this far behind starts losing notifications rather than blocking
// publishers.
const subscriberBuffer = 16

// NotificationHub fans live notifications out to connected websocket
// clients. Notifications are delivered best effort and never persisted.
type NotificationHub struct {
	mu   sync.RWMutex
	subs map[string]map[chan domain.Notification]struct{}
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		subs: make(map[string]map[chan domain.Notification]struct{}),
	}
}

// Subscribe registers a listener for one user's notifications. The returned
// cancel func must be called when the connection closes.
func (h *NotificationHub) Subscribe(userID string) (<-chan domain.Notification, func()) {
	ch := make(chan domain.Notification, subscriberBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan domain.Notification]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a notification to every live subscriber of the user.
// Slow subscribers are skipped, not waited for.
func (h *NotificationHub) Publish(userID string, n domain.Notification) {
	if n.ID == "" {
		n.ID = idx.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[userID] {
		select {
		case ch <- n:
		default:
		}
	}
}
