package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/internal/server/store"
	"github.com/edumentor/learnconnect/pkg/idx"
	"github.com/edumentor/learnconnect/pkg/slogx"
)

var (
	ErrForbidden         = errors.New("forbidden")
	ErrNotTutor          = errors.New("not_a_tutor")
	ErrInvalidSchedule   = errors.New("invalid_schedule")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrNotCompleted      = errors.New("session_not_completed")
	ErrAlreadyReviewed   = errors.New("already_reviewed")
)

// Session duration bounds, in minutes.
const (
	minSessionMinutes = 15
	maxSessionMinutes = 240
)

// BookingService owns the session lifecycle: booking, messaging, cancelling
// and reviewing.
type BookingService struct {
	Store store.Store
	Hub   *NotificationHub
}

// Book schedules a session for the learner with the given tutor and skill.
func (s *BookingService) Book(ctx context.Context, learnerID, tutorID, skillID string, startsAt time.Time, durationMinutes int) (*domain.BookingView, error) {
	l := slogx.FromContext(ctx)

	if durationMinutes < minSessionMinutes || durationMinutes > maxSessionMinutes {
		return nil, ErrInvalidSchedule
	}
	if startsAt.Before(time.Now()) {
		return nil, ErrInvalidSchedule
	}

	tutor, err := s.Store.Users().GetUserByID(ctx, tutorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotTutor
		}
		return nil, err
	}
	if tutor.Role != domain.RoleTutor {
		return nil, ErrNotTutor
	}

	skill, err := s.Store.Skills().GetSkillByID(ctx, skillID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownSkill
		}
		return nil, err
	}

	booking := domain.Booking{
		ID:              idx.New().String(),
		TutorID:         tutorID,
		LearnerID:       learnerID,
		SkillID:         skillID,
		StartsAt:        startsAt.UTC(),
		DurationMinutes: durationMinutes,
		Status:          domain.BookingStatusBooked,
	}
	if err := s.Store.Bookings().CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	view, err := s.Store.Bookings().GetBookingByID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	l.Info("session booked",
		slog.String("booking_id", booking.ID),
		slog.String("tutor_id", tutorID),
		slog.String("learner_id", learnerID))

	s.Hub.Publish(tutorID, domain.Notification{
		Type:      domain.NotifySessionBooked,
		Title:     fmt.Sprintf("New %s session with %s", skill.Name, view.LearnerName),
		SessionID: booking.ID,
	})

	return &view, nil
}

// Get returns one booking, restricted to its participants.
func (s *BookingService) Get(ctx context.Context, userID, bookingID string) (*domain.BookingView, error) {
	view, err := s.Store.Bookings().GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if view.TutorID != userID && view.LearnerID != userID {
		return nil, ErrForbidden
	}
	return &view, nil
}

// List returns the user's sessions, newest start time first.
func (s *BookingService) List(ctx context.Context, userID string, filter domain.BookingFilter) ([]domain.BookingView, error) {
	return s.Store.Bookings().ListUserBookings(ctx, userID, filter)
}

// Cancel moves a booked session to cancelled and notifies the other party.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID string) (*domain.BookingView, error) {
	view, err := s.Get(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if view.Status != domain.BookingStatusBooked {
		return nil, ErrInvalidTransition
	}

	if err := s.Store.Bookings().UpdateBookingStatus(ctx, bookingID, domain.BookingStatusCancelled); err != nil {
		return nil, err
	}
	view.Status = domain.BookingStatusCancelled

	other := view.TutorID
	if userID == view.TutorID {
		other = view.LearnerID
	}
	s.Hub.Publish(other, domain.Notification{
		Type:      domain.NotifySessionCancelled,
		Title:     fmt.Sprintf("%s session cancelled", view.SkillName),
		SessionID: bookingID,
	})

	return view, nil
}

// PostMessage appends to a booking thread and notifies the other participant.
func (s *BookingService) PostMessage(ctx context.Context, userID, bookingID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	view, err := s.Get(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	msg := domain.Message{
		ID:        idx.New().String(),
		BookingID: bookingID,
		SenderID:  userID,
		Body:      body,
		SentAt:    time.Now().UTC(),
	}
	if err := s.Store.Messages().CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	other, sender := view.TutorID, view.LearnerName
	if userID == view.TutorID {
		other, sender = view.LearnerID, view.TutorName
	}
	s.Hub.Publish(other, domain.Notification{
		Type:      domain.NotifyMessageReceived,
		Title:     fmt.Sprintf("New message from %s", sender),
		Body:      msg.Body,
		SessionID: bookingID,
	})

	return &msg, nil
}

// ListMessages returns a booking thread oldest first, participants only.
func (s *BookingService) ListMessages(ctx context.Context, userID, bookingID string) ([]domain.Message, error) {
	if _, err := s.Get(ctx, userID, bookingID); err != nil {
		return nil, err
	}
	return s.Store.Messages().ListBookingMessages(ctx, bookingID)
}

// Review lets the learner rate a completed session. One review per booking.
func (s *BookingService) Review(ctx context.Context, learnerID, bookingID string, rating int, comment string) (*domain.Review, error) {
	view, err := s.Store.Bookings().GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if view.LearnerID != learnerID {
		return nil, ErrForbidden
	}
	if view.Status != domain.BookingStatusCompleted {
		return nil, ErrNotCompleted
	}

	review := domain.Review{
		ID:        idx.New().String(),
		BookingID: bookingID,
		TutorID:   view.TutorID,
		LearnerID: learnerID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.Store.Reviews().CreateReview(ctx, review); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return &review, nil
}
