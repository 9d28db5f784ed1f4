package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/store"
)

type bookingEnv struct {
	store    store.Store
	hub      *NotificationHub
	bookings *BookingService
	skills   *SkillService
	tutor    domain.User
	learner  domain.User
	skill    domain.Skill
}

func newBookingEnv(t *testing.T) *bookingEnv {
	t.Helper()
	ctx := context.Background()

	st := newTestStore(t)
	auth := newAuthService(t, st)
	hub := NewNotificationHub()

	tutorRes, err := auth.Register(ctx, "Tina Tutor", "tina@example.com", "pw-secret", domain.RoleTutor)
	require.NoError(t, err)
	learnerRes, err := auth.Register(ctx, "Lee Learner", "lee@example.com", "pw-secret", domain.RoleLearner)
	require.NoError(t, err)

	skills := &SkillService{Store: st}
	skill, err := skills.Create(ctx, "Algebra", "maths")
	require.NoError(t, err)

	return &bookingEnv{
		store:    st,
		hub:      hub,
		bookings: &BookingService{Store: st, Hub: hub},
		skills:   skills,
		tutor:    tutorRes.User,
		learner:  learnerRes.User,
		skill:    *skill,
	}
}

func (e *bookingEnv) book(t *testing.T) *domain.BookingView {
	t.Helper()

	view, err := e.bookings.Book(context.Background(),
		e.learner.ID, e.tutor.ID, e.skill.ID, time.Now().Add(time.Hour), 60)
	require.NoError(t, err)
	return view
}

func TestBookNotifiesTutor(t *testing.T) {
	e := newBookingEnv(t)

	ch, cancel := e.hub.Subscribe(e.tutor.ID)
	defer cancel()

	view := e.book(t)
	assert.Equal(t, domain.BookingStatusBooked, view.Status)
	assert.Equal(t, "Tina Tutor", view.TutorName)
	assert.Equal(t, "Algebra", view.SkillName)

	select {
	case n := <-ch:
		assert.Equal(t, domain.NotifySessionBooked, n.Type)
		assert.Equal(t, view.ID, n.SessionID)
		assert.Contains(t, n.Title, "Algebra")
	default:
		t.Fatal("expected a booked notification")
	}
}

func TestBookValidation(t *testing.T) {
	e := newBookingEnv(t)
	ctx := context.Background()
	future := time.Now().Add(time.Hour)

	_, err := e.bookings.Book(ctx, e.learner.ID, e.learner.ID, e.skill.ID, future, 60)
	assert.ErrorIs(t, err, ErrNotTutor)

	_, err = e.bookings.Book(ctx, e.learner.ID, "no-such-user", e.skill.ID, future, 60)
	assert.ErrorIs(t, err, ErrNotTutor)

	_, err = e.bookings.Book(ctx, e.learner.ID, e.tutor.ID, "no-such-skill", future, 60)
	assert.ErrorIs(t, err, ErrUnknownSkill)

	_, err = e.bookings.Book(ctx, e.learner.ID, e.tutor.ID, e.skill.ID, time.Now().Add(-time.Hour), 60)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = e.bookings.Book(ctx, e.learner.ID, e.tutor.ID, e.skill.ID, future, 5)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = e.bookings.Book(ctx, e.learner.ID, e.tutor.ID, e.skill.ID, future, 600)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestGetRestrictedToParticipants(t *testing.T) {
	e := newBookingEnv(t)
	ctx := context.Background()

	view := e.book(t)

	for _, id := range []string{e.tutor.ID, e.learner.ID} {
		got, err := e.bookings.Get(ctx, id, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	}

	_, err := e.bookings.Get(ctx, "somebody-else", view.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.bookings.Get(ctx, e.tutor.ID, "no-such-booking")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCancelNotifiesOtherParty(t *testing.T) {
	e := newBookingEnv(t)
	ctx := context.Background()

	view := e.book(t)

	ch, cancel := e.hub.Subscribe(e.tutor.ID)
	defer cancel()

	got, err := e.bookings.Cancel(ctx, e.learner.ID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, got.Status)

	select {
	case n := <-ch:
		assert.Equal(t, domain.NotifySessionCancelled, n.Type)
	default:
		t.Fatal("expected a cancelled notification")
	}

	// Cancelling twice is an invalid transition.
	_, err = e.bookings.Cancel(ctx, e.learner.ID, view.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMessagesBetweenParticipants(t *testing.T) {
	e := newBookingEnv(t)
	ctx := context.Background()

	view := e.book(t)

	ch, cancel := e.hub.Subscribe(e.tutor.ID)
	defer cancel()

	msg, err := e.bookings.PostMessage(ctx, e.learner.ID, view.ID, "  hi there  ")
	require.NoError(t, err)
	assert.Equal(t, "hi there", msg.Body)

	select {
	case n := <-ch:
		assert.Equal(t, domain.NotifyMessageReceived, n.Type)
		assert.Contains(t, n.Title, "Lee Learner")
		assert.Equal(t, "hi there", n.Body)
	default:
		t.Fatal("expected a message notification")
	}

	_, err = e.bookings.PostMessage(ctx, "stranger", view.ID, "let me in")
	assert.ErrorIs(t, err, ErrForbidden)

	thread, err := e.bookings.ListMessages(ctx, e.tutor.ID, view.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, e.learner.ID, thread[0].SenderID)

	_, err = e.bookings.ListMessages(ctx, "stranger", view.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReviewRules(t *testing.T) {
	e := newBookingEnv(t)
	ctx := context.Background()

	view := e.book(t)

	// Only completed sessions can be reviewed.
	_, err := e.bookings.Review(ctx, e.learner.ID, view.ID, 5, "great")
	assert.ErrorIs(t, err, ErrNotCompleted)

	require.NoError(t, e.store.Bookings().UpdateBookingStatus(ctx, view.ID, domain.BookingStatusCompleted))

	// Only the learner can review.
	_, err = e.bookings.Review(ctx, e.tutor.ID, view.ID, 5, "I was great")
	assert.ErrorIs(t, err, ErrForbidden)

	review, err := e.bookings.Review(ctx, e.learner.ID, view.ID, 5, "great session")
	require.NoError(t, err)
	assert.Equal(t, e.tutor.ID, review.TutorID)

	_, err = e.bookings.Review(ctx, e.learner.ID, view.ID, 4, "changed my mind")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestAnalyticsSummaryIncludesRating(t *testing.T) {
	e := newBookingEnv(t)
	ctx := context.Background()

	view := e.book(t)
	require.NoError(t, e.store.Bookings().UpdateBookingStatus(ctx, view.ID, domain.BookingStatusCompleted))
	_, err := e.bookings.Review(ctx, e.learner.ID, view.ID, 4, "")
	require.NoError(t, err)

	analytics := &AnalyticsService{Store: e.store}

	sum, err := analytics.Summary(ctx, e.tutor.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TotalSessions)
	assert.Equal(t, 1, sum.CompletedSessions)
	assert.Equal(t, 60, sum.TotalMinutes)
	assert.InDelta(t, 4.0, sum.AverageRating, 0.001)

	// Learners have no received rating.
	sum, err = analytics.Summary(ctx, e.learner.ID)
	require.NoError(t, err)
	assert.Zero(t, sum.AverageRating)

	scores, err := analytics.Scores(ctx, e.tutor.ID)
	require.NoError(t, err)
	require.Len(t, scores, 5)
	assert.Equal(t, 1, scores[3].Count)
}

func TestMatchingSearchAttachesSkills(t *testing.T) {
	e := newBookingEnv(t)
	ctx := context.Background()

	_, err := e.skills.AddMine(ctx, e.tutor.ID, e.skill.ID)
	require.NoError(t, err)

	matching := &MatchingService{Store: e.store}

	listings, err := matching.Search(ctx, domain.TutorFilter{Skill: "algebra"})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, e.tutor.ID, listings[0].Tutor.ID)
	require.Len(t, listings[0].Skills, 1)
	assert.Equal(t, "Algebra", listings[0].Skills[0].Name)

	_, err = e.skills.AddMine(ctx, e.tutor.ID, "no-such-skill")
	assert.ErrorIs(t, err, ErrUnknownSkill)
}
