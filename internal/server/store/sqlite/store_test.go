package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/store"
	"github.com/edumentor/learnconnect/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s *Store, role string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Test " + role,
		Email:        idx.New().String() + "@example.com",
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedSkill(t *testing.T, s *Store, name string) domain.Skill {
	t.Helper()

	sk := domain.Skill{ID: idx.New().String(), Name: name, Category: "test"}
	require.NoError(t, s.Skills().CreateSkill(context.Background(), sk))
	return sk
}

func seedBooking(t *testing.T, s *Store, tutor, learner domain.User, skill domain.Skill, startsAt time.Time, status string) domain.Booking {
	t.Helper()

	b := domain.Booking{
		ID:              idx.New().String(),
		TutorID:         tutor.ID,
		LearnerID:       learner.ID,
		SkillID:         skill.ID,
		StartsAt:        startsAt,
		DurationMinutes: 60,
		Status:          status,
	}
	require.NoError(t, s.Bookings().CreateBooking(context.Background(), b))
	return b
}

func TestUsersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, domain.RoleLearner)

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.False(t, got.CreatedAt.IsZero())

	// Email lookup is case insensitive.
	byEmail, err := s.Users().GetUserByEmail(ctx, strings.ToLower(u.Email))
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().GetUserByID(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, domain.RoleLearner)

	dup := u
	dup.ID = idx.New().String()
	assert.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
}

func TestUpdateProfilePatchesOnlyGivenFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, domain.RoleTutor)

	bio := "Teaches algebra"
	rate := 42.5
	err := s.Users().UpdateProfile(ctx, u.ID, domain.ProfilePatch{Bio: &bio, HourlyRate: &rate})
	require.NoError(t, err)

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, bio, got.Bio)
	assert.Equal(t, rate, got.HourlyRate)
	assert.Equal(t, u.Name, got.Name)

	assert.ErrorIs(t,
		s.Users().UpdateProfile(ctx, "missing", domain.ProfilePatch{Bio: &bio}),
		store.ErrNotFound)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, domain.RoleLearner)

	tok := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: "fingerprint-1",
		SessionID: "session-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, tok))

	got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, tok.TokenHash)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)
	assert.False(t, got.Revoked)

	require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, tok.TokenHash))
	got, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, tok.TokenHash)
	require.NoError(t, err)
	assert.True(t, got.Revoked)

	assert.ErrorIs(t,
		s.RefreshTokens().RevokeRefreshToken(ctx, "unknown"),
		store.ErrNotFound)
}

func TestRevokeSessionSweepsChain(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, domain.RoleLearner)
	for i, hash := range []string{"h1", "h2"} {
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    u.ID,
			TokenHash: hash,
			SessionID: "chain",
			ExpiresAt: time.Now().Add(time.Duration(i+1) * time.Hour),
		}))
	}

	require.NoError(t, s.RefreshTokens().RevokeSession(ctx, "chain"))

	for _, hash := range []string{"h1", "h2"} {
		got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
		require.NoError(t, err)
		assert.True(t, got.Revoked)
	}
}

func TestDeleteExpiredRefreshTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, domain.RoleLearner)
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: "stale",
		SessionID: "s",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: "fresh",
		SessionID: "s",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, s.RefreshTokens().DeleteExpiredRefreshTokens(ctx))

	_, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "stale")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "fresh")
	assert.NoError(t, err)
}

func TestSkillsAndTutorSkills(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tutor := seedUser(t, s, domain.RoleTutor)
	algebra := seedSkill(t, s, "Algebra")
	seedSkill(t, s, "Zoology")

	all, err := s.Skills().ListSkills(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Algebra", all[0].Name)

	require.NoError(t, s.Skills().AddTutorSkill(ctx, tutor.ID, algebra.ID))
	// Idempotent.
	require.NoError(t, s.Skills().AddTutorSkill(ctx, tutor.ID, algebra.ID))

	mine, err := s.Skills().ListTutorSkills(ctx, tutor.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, algebra.ID, mine[0].ID)

	assert.ErrorIs(t,
		s.Skills().CreateSkill(ctx, domain.Skill{ID: idx.New().String(), Name: "Algebra"}),
		store.ErrAlreadyExists)
}

func TestBookingLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tutor := seedUser(t, s, domain.RoleTutor)
	learner := seedUser(t, s, domain.RoleLearner)
	skill := seedSkill(t, s, "Piano")

	b := seedBooking(t, s, tutor, learner, skill, time.Now().Add(time.Hour), domain.BookingStatusBooked)

	view, err := s.Bookings().GetBookingByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, tutor.Name, view.TutorName)
	assert.Equal(t, learner.Name, view.LearnerName)
	assert.Equal(t, "Piano", view.SkillName)

	require.NoError(t, s.Bookings().UpdateBookingStatus(ctx, b.ID, domain.BookingStatusCancelled))
	view, err = s.Bookings().GetBookingByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, view.Status)

	assert.ErrorIs(t,
		s.Bookings().UpdateBookingStatus(ctx, "missing", domain.BookingStatusCancelled),
		store.ErrNotFound)
}

func TestListUserBookingsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tutor := seedUser(t, s, domain.RoleTutor)
	learner := seedUser(t, s, domain.RoleLearner)
	skill := seedSkill(t, s, "Chess")

	past := seedBooking(t, s, tutor, learner, skill, time.Now().Add(-48*time.Hour), domain.BookingStatusCompleted)
	future := seedBooking(t, s, tutor, learner, skill, time.Now().Add(48*time.Hour), domain.BookingStatusBooked)

	all, err := s.Bookings().ListUserBookings(ctx, learner.ID, domain.BookingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest start time first.
	assert.Equal(t, future.ID, all[0].ID)

	booked, err := s.Bookings().ListUserBookings(ctx, learner.ID,
		domain.BookingFilter{Status: domain.BookingStatusBooked})
	require.NoError(t, err)
	require.Len(t, booked, 1)
	assert.Equal(t, future.ID, booked[0].ID)

	recent, err := s.Bookings().ListUserBookings(ctx, tutor.ID,
		domain.BookingFilter{From: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	require.Len(t, recent, 1)

	old, err := s.Bookings().ListUserBookings(ctx, tutor.ID,
		domain.BookingFilter{To: time.Now()})
	require.NoError(t, err)
	require.Len(t, old, 1)
	assert.Equal(t, past.ID, old[0].ID)
}

func TestCompleteElapsedBookings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tutor := seedUser(t, s, domain.RoleTutor)
	learner := seedUser(t, s, domain.RoleLearner)
	skill := seedSkill(t, s, "Violin")

	elapsed := seedBooking(t, s, tutor, learner, skill, time.Now().Add(-2*time.Hour), domain.BookingStatusBooked)
	upcoming := seedBooking(t, s, tutor, learner, skill, time.Now().Add(2*time.Hour), domain.BookingStatusBooked)

	require.NoError(t, s.Bookings().CompleteElapsedBookings(ctx))

	v, err := s.Bookings().GetBookingByID(ctx, elapsed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, v.Status)

	v, err = s.Bookings().GetBookingByID(ctx, upcoming.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusBooked, v.Status)
}

func TestSummaryAndActivity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tutor := seedUser(t, s, domain.RoleTutor)
	learner := seedUser(t, s, domain.RoleLearner)
	skill := seedSkill(t, s, "Guitar")

	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC) // a Monday
	seedBooking(t, s, tutor, learner, skill, start, domain.BookingStatusCompleted)
	seedBooking(t, s, tutor, learner, skill, start.Add(24*time.Hour), domain.BookingStatusCompleted)
	seedBooking(t, s, tutor, learner, skill, start.Add(48*time.Hour), domain.BookingStatusCancelled)

	sum, err := s.Bookings().Summary(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalSessions)
	assert.Equal(t, 2, sum.CompletedSessions)
	assert.Equal(t, 1, sum.CancelledSessions)
	assert.Equal(t, 120, sum.TotalMinutes)

	buckets, err := s.Bookings().ActivityBuckets(ctx, learner.ID)
	require.NoError(t, err)
	require.Len(t, buckets, 2) // cancelled session excluded
	assert.Equal(t, int(time.Monday), buckets[0].Weekday)
	assert.Equal(t, 14, buckets[0].Hour)
	assert.Equal(t, 1, buckets[0].Count)
}

func TestMessagesOrderedOldestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tutor := seedUser(t, s, domain.RoleTutor)
	learner := seedUser(t, s, domain.RoleLearner)
	skill := seedSkill(t, s, "Latin")
	b := seedBooking(t, s, tutor, learner, skill, time.Now(), domain.BookingStatusBooked)

	base := time.Now().Add(-time.Hour)
	for i, body := range []string{"first", "second", "third"} {
		require.NoError(t, s.Messages().CreateMessage(ctx, domain.Message{
			ID:        idx.New().String(),
			BookingID: b.ID,
			SenderID:  learner.ID,
			Body:      body,
			SentAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	thread, err := s.Messages().ListBookingMessages(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, "first", thread[0].Body)
	assert.Equal(t, "third", thread[2].Body)
}

func TestReviewsBucketsAndAverage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tutor := seedUser(t, s, domain.RoleTutor)
	learner := seedUser(t, s, domain.RoleLearner)
	skill := seedSkill(t, s, "Drawing")

	for _, rating := range []int{5, 4, 5} {
		b := seedBooking(t, s, tutor, learner, skill, time.Now().Add(-time.Hour), domain.BookingStatusCompleted)
		require.NoError(t, s.Reviews().CreateReview(ctx, domain.Review{
			ID:        idx.New().String(),
			BookingID: b.ID,
			TutorID:   tutor.ID,
			LearnerID: learner.ID,
			Rating:    rating,
		}))
	}

	buckets, err := s.Reviews().ScoreBuckets(ctx, tutor.ID)
	require.NoError(t, err)
	require.Len(t, buckets, 5)
	assert.Equal(t, 0, buckets[0].Count) // rating 1
	assert.Equal(t, 1, buckets[3].Count) // rating 4
	assert.Equal(t, 2, buckets[4].Count) // rating 5

	avg, count, err := s.Reviews().AverageForUser(ctx, tutor.ID)
	require.NoError(t, err)
	assert.InDelta(t, 14.0/3.0, avg, 0.001)
	assert.Equal(t, 3, count)
}

func TestReviewPerBookingUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tutor := seedUser(t, s, domain.RoleTutor)
	learner := seedUser(t, s, domain.RoleLearner)
	skill := seedSkill(t, s, "Yoga")
	b := seedBooking(t, s, tutor, learner, skill, time.Now().Add(-time.Hour), domain.BookingStatusCompleted)

	rv := domain.Review{
		ID: idx.New().String(), BookingID: b.ID,
		TutorID: tutor.ID, LearnerID: learner.ID, Rating: 5,
	}
	require.NoError(t, s.Reviews().CreateReview(ctx, rv))

	rv.ID = idx.New().String()
	assert.ErrorIs(t, s.Reviews().CreateReview(ctx, rv), store.ErrAlreadyExists)
}

func TestSearchTutorsFiltersAndOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	learner := seedUser(t, s, domain.RoleLearner)
	skill := seedSkill(t, s, "Algebra")

	cheap := seedUser(t, s, domain.RoleTutor)
	pricey := seedUser(t, s, domain.RoleTutor)
	rate1, rate2 := 20.0, 80.0
	require.NoError(t, s.Users().UpdateProfile(ctx, cheap.ID, domain.ProfilePatch{HourlyRate: &rate1}))
	require.NoError(t, s.Users().UpdateProfile(ctx, pricey.ID, domain.ProfilePatch{HourlyRate: &rate2}))
	require.NoError(t, s.Skills().AddTutorSkill(ctx, cheap.ID, skill.ID))
	require.NoError(t, s.Skills().AddTutorSkill(ctx, pricey.ID, skill.ID))

	// Give pricey a 5-star review so it ranks first.
	b := seedBooking(t, s, pricey, learner, skill, time.Now().Add(-time.Hour), domain.BookingStatusCompleted)
	require.NoError(t, s.Reviews().CreateReview(ctx, domain.Review{
		ID: idx.New().String(), BookingID: b.ID,
		TutorID: pricey.ID, LearnerID: learner.ID, Rating: 5,
	}))

	all, err := s.Users().SearchTutors(ctx, domain.TutorFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, pricey.ID, all[0].Tutor.ID)
	assert.InDelta(t, 5.0, all[0].Rating, 0.001)
	assert.Equal(t, 1, all[0].Reviews)

	affordable, err := s.Users().SearchTutors(ctx, domain.TutorFilter{MaxRate: 50})
	require.NoError(t, err)
	require.Len(t, affordable, 1)
	assert.Equal(t, cheap.ID, affordable[0].Tutor.ID)

	rated, err := s.Users().SearchTutors(ctx, domain.TutorFilter{MinRating: 4})
	require.NoError(t, err)
	require.Len(t, rated, 1)
	assert.Equal(t, pricey.ID, rated[0].Tutor.ID)

	bySkill, err := s.Users().SearchTutors(ctx, domain.TutorFilter{Skill: "algebra"})
	require.NoError(t, err)
	assert.Len(t, bySkill, 2)

	none, err := s.Users().SearchTutors(ctx, domain.TutorFilter{Skill: "welding"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, domain.RoleLearner)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID: idx.New().String(), UserID: u.ID,
			TokenHash: "rolled-back", SessionID: "s",
			ExpiresAt: time.Now().Add(time.Hour),
		}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "rolled-back")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
