package domain

import "time"

// Summary is the headline dashboard numbers for one user.
type Summary struct {
	TotalSessions     int
	CompletedSessions int
	CancelledSessions int
	TotalMinutes      int
	AverageRating     float64
}

// ActivityBucket is one weekday/hour cell of the session activity heatmap.
type ActivityBucket struct {
	Weekday int // 0 = Sunday
	Hour    int // 0-23
	Count   int
}

// ScoreBucket is one bar of the review-score histogram.
type ScoreBucket struct {
	Rating int // 1-5
	Count  int
}

// Notification is a server-pushed event delivered to a user's websocket
// stream. Notifications are delivered live only, never persisted.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification types.
const (
	NotifySessionBooked    = "session.booked"
	NotifySessionCancelled = "session.cancelled"
	NotifyMessageReceived  = "message.received"
)
