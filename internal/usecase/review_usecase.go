package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillswap/internal/domain/review"
	"skillswap/internal/domain/session"
	"skillswap/internal/metrics"
	"skillswap/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type SubmitReviewInput struct {
	Rating  int
	Comment string
}

type ReviewUsecase interface {
	// Submit records the learner's review of a completed session, once per session.
	Submit(ctx context.Context, sessionID uuid.UUID, actor session.Actor, in SubmitReviewInput) (review.Review, error)
	// ForSession returns the session's review to its participants or an admin.
	ForSession(ctx context.Context, sessionID uuid.UUID, actor session.Actor) (review.Review, error)
}

type Review struct {
	store  repository.Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewReviewUsecase(store repository.Store, logger zerolog.Logger) *Review {
	return &Review{store: store, logger: logger, now: time.Now}
}

func (u *Review) Submit(ctx context.Context, sessionID uuid.UUID, actor session.Actor, in SubmitReviewInput) (review.Review, error) {
	rv, err := u.submit(ctx, sessionID, actor, in)
	if err != nil {
		outcome := metrics.OutcomeRejected
		if errors.Is(err, ErrInternal) {
			outcome = metrics.OutcomeFailure
			u.logger.Error().Err(err).Str("session_id", sessionID.String()).Msg("submit review failed")
		}
		metrics.ReviewsSubmitted.WithLabelValues(outcome).Inc()
		return review.Review{}, err
	}
	metrics.ReviewsSubmitted.WithLabelValues(metrics.OutcomeSuccess).Inc()
	u.logger.Info().
		Str("session_id", sessionID.String()).
		Str("mentor_id", rv.MentorID.String()).
		Int("rating", rv.Rating).
		Msg("review submitted")
	return rv, nil
}

func (u *Review) submit(ctx context.Context, sessionID uuid.UUID, actor session.Actor, in SubmitReviewInput) (review.Review, error) {
	if sessionID == uuid.Nil || actor.ID == uuid.Nil {
		return review.Review{}, ErrInvalidInput
	}

	var rv review.Review
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		req, err := r.Sessions.FindByIDForUpdate(ctx, sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return ErrNotFound
			}
			return err
		}
		if req.LearnerID != actor.ID {
			return ErrForbidden
		}
		if req.Status != session.StatusCompleted {
			return ErrSessionNotCompleted
		}
		if _, err := r.Reviews.FindBySessionID(ctx, sessionID); err == nil {
			return ErrAlreadyReviewed
		} else if !errors.Is(err, repository.ErrReviewNotFound) {
			return err
		}
		if err := review.ValidateInput(in.Rating, in.Comment); err != nil {
			return err
		}

		rv, err = r.Reviews.Create(ctx, review.Review{
			ID:        uuid.New(),
			SessionID: req.ID,
			LearnerID: req.LearnerID,
			MentorID:  req.MentorID,
			Rating:    in.Rating,
			Comment:   strings.TrimSpace(in.Comment),
			CreatedAt: u.now().UTC(),
		})
		return err
	})
	if err != nil {
		return review.Review{}, classify(err)
	}
	return rv, nil
}

func (u *Review) ForSession(ctx context.Context, sessionID uuid.UUID, actor session.Actor) (review.Review, error) {
	var rv review.Review
	err := u.store.ReadSnapshot(ctx, func(r repository.Repositories) error {
		req, err := r.Sessions.FindByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return ErrNotFound
			}
			return err
		}
		if actor.Role != session.RoleAdmin && !req.IsParticipant(actor.ID) {
			return ErrForbidden
		}
		rv, err = r.Reviews.FindBySessionID(ctx, sessionID)
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrNotFound
		}
		return err
	})
	if err != nil {
		return review.Review{}, classify(err)
	}
	return rv, nil
}
