package repository

import (
	"context"
	"errors"

	"skillswap/internal/database"
	"skillswap/internal/domain/review"

	"github.com/google/uuid"
)

var ErrReviewNotFound = errors.New("review not found")

const reviewSessionKey = "reviews_session_id_key"

type MentorRating struct {
	Average float64
	Total   int
}

type ReviewRepository interface {
	// Create fails with review.ErrAlreadyReviewed when the session already has one.
	Create(ctx context.Context, rv review.Review) (review.Review, error)
	FindBySessionID(ctx context.Context, sessionID uuid.UUID) (review.Review, error)
	// MentorRatings omits mentors without reviews.
	MentorRatings(ctx context.Context, mentorIDs []uuid.UUID) (map[uuid.UUID]MentorRating, error)
}

type PostgresReviewRepository struct {
	db database.Querier
}

func NewPostgresReviewRepository(db database.Querier) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func (r *PostgresReviewRepository) Create(ctx context.Context, rv review.Review) (review.Review, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO reviews (id, session_id, learner_id, mentor_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rv.ID, rv.SessionID, rv.LearnerID, rv.MentorID, rv.Rating, rv.Comment, rv.CreatedAt,
	)
	if err != nil {
		if uniqueViolation(err, reviewSessionKey) {
			return review.Review{}, review.ErrAlreadyReviewed
		}
		return review.Review{}, err
	}
	return rv, nil
}

func (r *PostgresReviewRepository) FindBySessionID(ctx context.Context, sessionID uuid.UUID) (review.Review, error) {
	var rv review.Review
	row := r.db.QueryRow(ctx,
		`SELECT id, session_id, learner_id, mentor_id, rating, comment, created_at
		 FROM reviews
		 WHERE session_id = $1`,
		sessionID,
	)
	if err := row.Scan(&rv.ID, &rv.SessionID, &rv.LearnerID, &rv.MentorID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
		if noRows(err) {
			return review.Review{}, ErrReviewNotFound
		}
		return review.Review{}, err
	}
	return rv, nil
}

func (r *PostgresReviewRepository) MentorRatings(ctx context.Context, mentorIDs []uuid.UUID) (map[uuid.UUID]MentorRating, error) {
	out := make(map[uuid.UUID]MentorRating, len(mentorIDs))
	if len(mentorIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT mentor_id, AVG(rating)::float8, COUNT(*)
		 FROM reviews
		 WHERE mentor_id = ANY($1)
		 GROUP BY mentor_id`,
		mentorIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var mr MentorRating
		if err := rows.Scan(&id, &mr.Average, &mr.Total); err != nil {
			return nil, err
		}
		out[id] = mr
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
