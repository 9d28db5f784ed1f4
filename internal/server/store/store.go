package store

import (
	"context"
	"errors"

	"github.com/edumentor/learnconnect/internal/server/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep concerns tidy and let services depend
// on exactly the tables they touch.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Skills() Skills
	Bookings() Bookings
	Messages() Messages
	Reviews() Reviews

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn errors
	// and committing otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store scope.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile merges non-nil patch fields and bumps updated_at.
	UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) error

	// SearchTutors runs the tutor matching query: tutors joined with their
	// skills and review aggregates, filtered and ordered by rating.
	SearchTutors(ctx context.Context, filter domain.TutorFilter) ([]domain.TutorListing, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the record by token fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked=1 and bumps updated_at.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeSession revokes every token in a session chain, used when a
	// presented refresh token turns out to be already rotated away.
	RevokeSession(ctx context.Context, sessionID string) error

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

type Skills interface {
	// ListSkills returns the full catalog ordered by name.
	ListSkills(ctx context.Context) ([]domain.Skill, error)

	// GetSkillByID returns one catalog entry.
	GetSkillByID(ctx context.Context, id string) (domain.Skill, error)

	// CreateSkill inserts a catalog entry (seeding and admin tooling).
	CreateSkill(ctx context.Context, s domain.Skill) error

	// AddTutorSkill declares that a tutor teaches a skill. Idempotent.
	AddTutorSkill(ctx context.Context, tutorID, skillID string) error

	// ListTutorSkills returns the skills a tutor teaches.
	ListTutorSkills(ctx context.Context, tutorID string) ([]domain.Skill, error)
}

type Bookings interface {
	// CreateBooking inserts a new booking.
	CreateBooking(ctx context.Context, b domain.Booking) error

	// GetBookingByID returns a booking with participant and skill names.
	GetBookingByID(ctx context.Context, id string) (domain.BookingView, error)

	// ListUserBookings returns bookings where the user is tutor or learner,
	// newest start time first.
	ListUserBookings(ctx context.Context, userID string, filter domain.BookingFilter) ([]domain.BookingView, error)

	// UpdateBookingStatus transitions a booking and bumps updated_at.
	UpdateBookingStatus(ctx context.Context, id, status string) error

	// CompleteElapsedBookings marks booked sessions whose end time has
	// passed as completed. Housekeeping.
	CompleteElapsedBookings(ctx context.Context) error

	// Summary aggregates the user's booking counts and minutes.
	Summary(ctx context.Context, userID string) (domain.Summary, error)

	// ActivityBuckets groups the user's sessions by weekday and hour.
	ActivityBuckets(ctx context.Context, userID string) ([]domain.ActivityBucket, error)
}

type Messages interface {
	// CreateMessage appends a message to a booking thread.
	CreateMessage(ctx context.Context, m domain.Message) error

	// ListBookingMessages returns a thread oldest first.
	ListBookingMessages(ctx context.Context, bookingID string) ([]domain.Message, error)
}

type Reviews interface {
	// CreateReview stores a learner's rating of a session.
	CreateReview(ctx context.Context, r domain.Review) error

	// ScoreBuckets returns the 1-5 histogram of ratings received by a tutor
	// or given by a learner, depending on which column userID matches.
	ScoreBuckets(ctx context.Context, userID string) ([]domain.ScoreBucket, error)

	// AverageForUser returns the user's average received (tutor) rating and
	// the review count. Zero average when unreviewed.
	AverageForUser(ctx context.Context, userID string) (float64, int, error)
}
