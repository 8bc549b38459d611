// Package review holds the learner's rating of a completed session. Reviews
// feed the rating component of mentor recommendations.
package review

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 1000
)

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong  = errors.New("comment must be 1000 characters or less")
	ErrAlreadyReviewed = errors.New("review already submitted for this session")
)

type Review struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	LearnerID uuid.UUID
	MentorID  uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ValidateInput checks the learner-supplied fields. Comment length counts
// characters, not bytes.
func ValidateInput(rating int, comment string) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	if utf8.RuneCountInString(strings.TrimSpace(comment)) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}
