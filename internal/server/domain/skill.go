package domain

import "time"

// Skill is a teachable subject in the catalog.
type Skill struct {
	ID        string
	Name      string
	Category  string
	CreatedAt time.Time
}

// TutorListing is one tutor search result: the profile, the skills they
// teach, and their review aggregates.
type TutorListing struct {
	Tutor   User
	Skills  []Skill
	Rating  float64 // average review rating, 0 when unreviewed
	Reviews int
}

// TutorFilter narrows the tutor search. Zero values are not applied.
type TutorFilter struct {
	Skill     string // skill name, case-insensitive
	MinRating float64
	MaxRate   float64
	Limit     int
}
