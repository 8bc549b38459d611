package usecase

import (
	"errors"
	"fmt"

	"skillswap/internal/domain/matching"
	"skillswap/internal/domain/review"
	"skillswap/internal/domain/session"
	"skillswap/internal/domain/skill"
)

var (
	ErrInvalidSkillType       = skill.ErrInvalidSkillType
	ErrInvalidProficiency     = skill.ErrInvalidProficiency
	ErrInvalidParticipants    = errors.New("learner and mentor must be different users")
	ErrInvalidTimeWindow      = session.ErrInvalidTimeWindow
	ErrMentorNotFound         = errors.New("mentor not found")
	ErrSkillNotFound          = errors.New("skill not found")
	ErrMentorCannotTeachSkill = errors.New("mentor cannot teach skill")
	ErrDuplicateActiveRequest = errors.New("an active request already exists for this mentor and skill")
	ErrInvalidStateTransition = session.ErrInvalidStateTransition
	ErrUnknownAction          = session.ErrUnknownAction
	ErrInvalidTopN            = matching.ErrInvalidTopN
	ErrForbidden              = session.ErrForbidden
	ErrInvalidRating          = review.ErrInvalidRating
	ErrCommentTooLong         = review.ErrCommentTooLong
	ErrSessionNotCompleted    = errors.New("only completed sessions can be reviewed")
	ErrAlreadyReviewed        = review.ErrAlreadyReviewed
	ErrNotFound               = errors.New("not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

var knownErrors = []error{
	ErrInvalidSkillType,
	ErrInvalidProficiency,
	ErrInvalidParticipants,
	ErrInvalidTimeWindow,
	ErrMentorNotFound,
	ErrSkillNotFound,
	ErrMentorCannotTeachSkill,
	ErrDuplicateActiveRequest,
	ErrInvalidStateTransition,
	ErrUnknownAction,
	ErrInvalidTopN,
	ErrForbidden,
	ErrInvalidRating,
	ErrCommentTooLong,
	ErrSessionNotCompleted,
	ErrAlreadyReviewed,
	ErrNotFound,
	ErrInvalidInput,
	ErrInternal,
}

// classify passes usecase errors through and folds everything else into
// ErrInternal, keeping the cause text for logs.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range knownErrors {
		if errors.Is(err, k) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
