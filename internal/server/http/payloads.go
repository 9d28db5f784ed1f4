package http

import (
	"time"

	"github.com/edumentor/learnconnect/internal/server/domain"
)

// Wire shapes. Field names are part of the public API contract with the
// client SDK; change them only in lockstep.

type profilePayload struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Bio        string  `json:"bio,omitempty"`
	HourlyRate float64 `json:"hourlyRate,omitempty"`
	Timezone   string  `json:"timezone,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

func toProfile(u domain.User) profilePayload {
	p := profilePayload{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Bio:        u.Bio,
		HourlyRate: u.HourlyRate,
		Timezone:   u.Timezone,
	}
	if !u.CreatedAt.IsZero() {
		p.CreatedAt = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	return p
}

type authPayload struct {
	User   profilePayload   `json:"user"`
	Tokens domain.TokenPair `json:"tokens"`
}

type sessionPayload struct {
	ID              string    `json:"id"`
	TutorID         string    `json:"tutorId"`
	TutorName       string    `json:"tutorName,omitempty"`
	LearnerID       string    `json:"learnerId"`
	LearnerName     string    `json:"learnerName,omitempty"`
	SkillID         string    `json:"skillId"`
	SkillName       string    `json:"skillName,omitempty"`
	StartsAt        time.Time `json:"startsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toSession(v domain.BookingView) sessionPayload {
	return sessionPayload{
		ID:              v.ID,
		TutorID:         v.TutorID,
		TutorName:       v.TutorName,
		LearnerID:       v.LearnerID,
		LearnerName:     v.LearnerName,
		SkillID:         v.SkillID,
		SkillName:       v.SkillName,
		StartsAt:        v.StartsAt,
		DurationMinutes: v.DurationMinutes,
		Status:          v.Status,
		CreatedAt:       v.CreatedAt,
	}
}

func toSessions(views []domain.BookingView) []sessionPayload {
	out := make([]sessionPayload, 0, len(views))
	for _, v := range views {
		out = append(out, toSession(v))
	}
	return out
}

type messagePayload struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	SenderID  string    `json:"senderId"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sentAt"`
}

func toMessage(m domain.Message) messagePayload {
	return messagePayload{
		ID:        m.ID,
		SessionID: m.BookingID,
		SenderID:  m.SenderID,
		Body:      m.Body,
		SentAt:    m.SentAt,
	}
}

type skillPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

func toSkill(s domain.Skill) skillPayload {
	return skillPayload{ID: s.ID, Name: s.Name, Category: s.Category}
}

func toSkills(skills []domain.Skill) []skillPayload {
	out := make([]skillPayload, 0, len(skills))
	for _, s := range skills {
		out = append(out, toSkill(s))
	}
	return out
}

type tutorMatchPayload struct {
	User       profilePayload `json:"user"`
	Skills     []skillPayload `json:"skills"`
	Rating     float64        `json:"rating"`
	Reviews    int            `json:"reviews"`
	HourlyRate float64        `json:"hourlyRate"`
}

func toTutorMatch(l domain.TutorListing) tutorMatchPayload {
	p := toProfile(l.Tutor)
	p.Email = "" // tutor contact details stay private until a session is booked
	return tutorMatchPayload{
		User:       p,
		Skills:     toSkills(l.Skills),
		Rating:     l.Rating,
		Reviews:    l.Reviews,
		HourlyRate: l.Tutor.HourlyRate,
	}
}
