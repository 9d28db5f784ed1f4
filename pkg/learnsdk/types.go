package learnsdk

import "time"

// ============================================================================
// Auth Types
// ============================================================================

// TokenPair is returned by the login, register, and refresh endpoints.
type TokenPair struct {
	// AccessToken is the short-lived JWT authorizing API calls.
	AccessToken string `json:"accessToken"`

	// RefreshToken is the long-lived opaque token used only to obtain a new
	// access token. Empty on refresh responses when the server did not
	// rotate it.
	RefreshToken string `json:"refreshToken,omitempty"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expiresIn"`
}

// UserProfile is the server-supplied identity for the authenticated user.
type UserProfile struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"` // "learner" or "tutor"
	Bio        string  `json:"bio,omitempty"`
	HourlyRate float64 `json:"hourlyRate,omitempty"` // tutors only
	Timezone   string  `json:"timezone,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

// AuthPayload bundles the profile and tokens returned by login and register.
type AuthPayload struct {
	User   UserProfile `json:"user"`
	Tokens TokenPair   `json:"tokens"`
}

// Credentials is the login request payload. It is transient: used for a
// single request and never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request payload.
type Registration struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	Bio        string  `json:"bio,omitempty"`
	HourlyRate float64 `json:"hourlyRate,omitempty"`
	Timezone   string  `json:"timezone,omitempty"`
}

// ProfileUpdate carries the fields to merge into the current profile.
// Nil pointers are omitted and left unchanged server-side.
type ProfileUpdate struct {
	Name       *string  `json:"name,omitempty"`
	Bio        *string  `json:"bio,omitempty"`
	HourlyRate *float64 `json:"hourlyRate,omitempty"`
	Timezone   *string  `json:"timezone,omitempty"`
}

// ============================================================================
// Session (booking) Types
// ============================================================================

// Session is a booked tutoring session between a learner and a tutor.
type Session struct {
	ID              string    `json:"id"`
	TutorID         string    `json:"tutorId"`
	TutorName       string    `json:"tutorName,omitempty"`
	LearnerID       string    `json:"learnerId"`
	LearnerName     string    `json:"learnerName,omitempty"`
	SkillID         string    `json:"skillId"`
	SkillName       string    `json:"skillName,omitempty"`
	StartsAt        time.Time `json:"startsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"` // "booked", "completed", "cancelled"
	CreatedAt       time.Time `json:"createdAt"`
}

// BookSessionRequest is the payload for booking a new session.
type BookSessionRequest struct {
	TutorID         string    `json:"tutorId"`
	SkillID         string    `json:"skillId"`
	StartsAt        time.Time `json:"startsAt"`
	DurationMinutes int       `json:"durationMinutes"`
}

// SessionFilter narrows session listings. Zero values are omitted from the
// query string.
type SessionFilter struct {
	Status string
	From   time.Time
	To     time.Time
}

// SessionList is the sessions listing response.
type SessionList struct {
	Sessions []Session `json:"sessions"`
}

// Message is a chat message attached to a session.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	SenderID  string    `json:"senderId"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sentAt"`
}

// MessageList is the session messages response.
type MessageList struct {
	Messages []Message `json:"messages"`
}

// SendMessageRequest posts a message to a session thread.
type SendMessageRequest struct {
	Body string `json:"body"`
}

// ReviewRequest rates a completed session.
type ReviewRequest struct {
	Rating  int    `json:"rating"` // 1-5
	Comment string `json:"comment,omitempty"`
}

// Review is the server's record of a submitted rating.
type Review struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// ============================================================================
// Skill Types
// ============================================================================

// Skill is a teachable subject.
type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// SkillList is the skills listing response.
type SkillList struct {
	Skills []Skill `json:"skills"`
}

// AddSkillRequest declares a skill the authenticated tutor teaches.
type AddSkillRequest struct {
	SkillID string `json:"skillId"`
}

// ============================================================================
// Matching Types
// ============================================================================

// TutorMatch is one result from the tutor search.
type TutorMatch struct {
	User       UserProfile `json:"user"`
	Skills     []Skill     `json:"skills"`
	Rating     float64     `json:"rating"`
	Reviews    int         `json:"reviews"`
	HourlyRate float64     `json:"hourlyRate"`
}

// TutorFilter narrows the tutor search. Zero values are omitted.
type TutorFilter struct {
	Skill     string
	MinRating float64
	MaxRate   float64
	Limit     int
}

// TutorMatchList is the matching response.
type TutorMatchList struct {
	Tutors []TutorMatch `json:"tutors"`
}

// ============================================================================
// Analytics Types
// ============================================================================

// AnalyticsSummary is the headline dashboard numbers for the current user.
type AnalyticsSummary struct {
	TotalSessions     int     `json:"totalSessions"`
	CompletedSessions int     `json:"completedSessions"`
	CancelledSessions int     `json:"cancelledSessions"`
	TotalMinutes      int     `json:"totalMinutes"`
	AverageRating     float64 `json:"averageRating"`
}

// ActivityBucket is one cell of the weekday/hour activity heatmap.
type ActivityBucket struct {
	Weekday int `json:"weekday"` // 0 = Sunday
	Hour    int `json:"hour"`    // 0-23
	Count   int `json:"count"`
}

// ActivityHeatmap is the bucketed session activity response.
type ActivityHeatmap struct {
	Buckets []ActivityBucket `json:"buckets"`
}

// ScoreBucket is one bar of the review-score histogram.
type ScoreBucket struct {
	Rating int `json:"rating"` // 1-5
	Count  int `json:"count"`
}

// ScoreDistribution is the review-score histogram response.
type ScoreDistribution struct {
	Buckets []ScoreBucket `json:"buckets"`
}

// ============================================================================
// Notification Types
// ============================================================================

// Notification is a server-pushed event delivered over the websocket stream.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // e.g. "session.booked", "session.cancelled", "message.received"
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
