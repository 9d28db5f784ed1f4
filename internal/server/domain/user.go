package domain

import "time"

// Account roles. A user is exactly one of these for the lifetime of the
// account.
const (
	RoleLearner = "learner"
	RoleTutor   = "tutor"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // argon2id PHC encoded
	Role         string
	Bio          string
	HourlyRate   float64 // tutors only, per hour
	Timezone     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfilePatch carries the profile fields to merge. Nil means "leave as is".
type ProfilePatch struct {
	Name       *string
	Bio        *string
	HourlyRate *float64
	Timezone   *string
}
