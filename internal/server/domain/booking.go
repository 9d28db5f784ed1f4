package domain

import "time"

// Booking statuses.
const (
	BookingStatusBooked    = "booked"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a scheduled tutoring session between a learner and a tutor.
type Booking struct {
	ID              string
	TutorID         string
	LearnerID       string
	SkillID         string
	StartsAt        time.Time
	DurationMinutes int
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookingView is a booking joined with participant and skill names for
// listing responses.
type BookingView struct {
	Booking
	TutorName   string
	LearnerName string
	SkillName   string
}

// BookingFilter narrows booking listings. Zero values are not applied.
type BookingFilter struct {
	Status string
	From   time.Time
	To     time.Time
}

// Message is a chat message attached to a booking thread.
type Message struct {
	ID        string
	BookingID string
	SenderID  string
	Body      string
	SentAt    time.Time
}

// Review is a learner's rating of a completed session's tutor.
type Review struct {
	ID        string
	BookingID string
	TutorID   string
	LearnerID string
	Rating    int // 1-5
	Comment   string
	CreatedAt time.Time
}
