package dto

import (
	"time"

	"skillswap/internal/domain/review"

	"github.com/google/uuid"
)

type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	LearnerID uuid.UUID `json:"learner_id"`
	MentorID  uuid.UUID `json:"mentor_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewReviewResponse(rv review.Review) ReviewResponse {
	return ReviewResponse{
		ID:        rv.ID,
		SessionID: rv.SessionID,
		LearnerID: rv.LearnerID,
		MentorID:  rv.MentorID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
	}
}
