package sqlite

import (
	"context"

	"github.com/edumentor/learnconnect/internal/server/domain"
)

type messagesRepo struct {
	q querier
}

func (r *messagesRepo) CreateMessage(ctx context.Context, m domain.Message) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO messages (id, booking_id, sender_id, body, sent_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.BookingID, m.SenderID, m.Body, toEpoch(m.SentAt),
	)
	return err
}

func (r *messagesRepo) ListBookingMessages(ctx context.Context, bookingID string) ([]domain.Message, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, booking_id, sender_id, body, sent_at
		FROM messages WHERE booking_id = ?
		ORDER BY sent_at ASC, id ASC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var sent int64
		if err := rows.Scan(&m.ID, &m.BookingID, &m.SenderID, &m.Body, &sent); err != nil {
			return nil, err
		}
		m.SentAt = fromEpoch(sent)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
