package sqlite

import (
	"context"
	"time"

	"github.com/edumentor/learnconnect/internal/server/domain"
)

type reviewsRepo struct {
	q querier
}

func (r *reviewsRepo) CreateReview(ctx context.Context, rv domain.Review) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO reviews (id, booking_id, tutor_id, learner_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rv.ID, rv.BookingID, rv.TutorID, rv.LearnerID, rv.Rating, rv.Comment, toEpoch(time.Now()),
	)
	return mapConstraint(err)
}

func (r *reviewsRepo) ScoreBuckets(ctx context.Context, userID string) ([]domain.ScoreBucket, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE tutor_id = ? OR learner_id = ?
		GROUP BY rating
		ORDER BY rating ASC`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int, 5)
	for rows.Next() {
		var rating, n int
		if err := rows.Scan(&rating, &n); err != nil {
			return nil, err
		}
		counts[rating] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Always return all five buckets so chart consumers get a stable shape.
	buckets := make([]domain.ScoreBucket, 0, 5)
	for rating := 1; rating <= 5; rating++ {
		buckets = append(buckets, domain.ScoreBucket{Rating: rating, Count: counts[rating]})
	}
	return buckets, nil
}

func (r *reviewsRepo) AverageForUser(ctx context.Context, userID string) (float64, int, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE tutor_id = ?`, userID)

	var avg float64
	var count int
	if err := row.Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
