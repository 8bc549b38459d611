package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"skillswap/internal/domain/matching"
	"skillswap/internal/domain/session"
	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f sessionFixture) completed(t *testing.T) session.Request {
	t.Helper()
	ctx := context.Background()
	req := f.create(t)
	_, err := f.uc.Transition(ctx, req.ID, f.mentorActor(), TransitionInput{Action: session.ActionConfirm})
	require.NoError(t, err)
	done, err := f.uc.Transition(ctx, req.ID, f.learnerActor(), TransitionInput{Action: session.ActionComplete})
	require.NoError(t, err)
	return done
}

func newReviewUsecase(f sessionFixture) *Review {
	uc := NewReviewUsecase(f.store, zerolog.Nop())
	uc.now = func() time.Time { return testNow }
	return uc
}

func TestSubmitReview_Success(t *testing.T) {
	f := newSessionFixture(t)
	req := f.completed(t)
	uc := newReviewUsecase(f)

	rv, err := uc.Submit(context.Background(), req.ID, f.learnerActor(), SubmitReviewInput{Rating: 4, Comment: "  clear and patient  "})
	require.NoError(t, err)
	assert.Equal(t, req.ID, rv.SessionID)
	assert.Equal(t, f.learner.ID, rv.LearnerID)
	assert.Equal(t, f.mentor.ID, rv.MentorID)
	assert.Equal(t, 4, rv.Rating)
	assert.Equal(t, "clear and patient", rv.Comment)
	assert.Equal(t, testNow, rv.CreatedAt)

	got, err := uc.ForSession(context.Background(), req.ID, f.mentorActor())
	require.NoError(t, err)
	assert.Equal(t, rv.ID, got.ID)
	require.Len(t, f.store.Reviews(), 1)
}

func TestSubmitReview_Eligibility(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	uc := newReviewUsecase(f)

	_, err := uc.Submit(ctx, uuid.New(), f.learnerActor(), SubmitReviewInput{Rating: 5})
	assert.ErrorIs(t, err, ErrNotFound)

	open := f.create(t)
	_, err = uc.Submit(ctx, open.ID, f.learnerActor(), SubmitReviewInput{Rating: 5})
	assert.ErrorIs(t, err, ErrSessionNotCompleted)

	_, err = f.uc.Transition(ctx, open.ID, f.mentorActor(), TransitionInput{Action: session.ActionConfirm})
	require.NoError(t, err)
	_, err = f.uc.Transition(ctx, open.ID, f.mentorActor(), TransitionInput{Action: session.ActionComplete})
	require.NoError(t, err)

	// only the learner reviews, and only once
	_, err = uc.Submit(ctx, open.ID, f.mentorActor(), SubmitReviewInput{Rating: 5})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = uc.Submit(ctx, open.ID, f.learnerActor(), SubmitReviewInput{Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = uc.Submit(ctx, open.ID, f.learnerActor(), SubmitReviewInput{Rating: 3, Comment: strings.Repeat("x", 1001)})
	assert.ErrorIs(t, err, ErrCommentTooLong)

	_, err = uc.Submit(ctx, open.ID, f.learnerActor(), SubmitReviewInput{Rating: 3})
	require.NoError(t, err)
	_, err = uc.Submit(ctx, open.ID, f.learnerActor(), SubmitReviewInput{Rating: 5})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	assert.Len(t, f.store.Reviews(), 1)

	stranger := session.Actor{ID: f.other.ID, Role: session.RoleStudent}
	_, err = uc.ForSession(ctx, open.ID, stranger)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitReview_FeedsRecommendationRating(t *testing.T) {
	f := newSessionFixture(t)
	f.store.AddUserSkill(skill.Record{UserID: f.learner.ID, SkillID: f.goSkill.ID, Type: "learn"})
	req := f.completed(t)

	scorer, err := matching.NewScorer(matching.DefaultWeights)
	require.NoError(t, err)
	reco := NewRecommendationUsecase(f.store, scorer)
	reco.now = func() time.Time { return testNow }

	before, err := reco.Recommend(context.Background(), f.learner.ID, 5)
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Nil(t, before[0].Rating)

	_, err = newReviewUsecase(f).Submit(context.Background(), req.ID, f.learnerActor(), SubmitReviewInput{Rating: 5})
	require.NoError(t, err)

	after, err := reco.Recommend(context.Background(), f.learner.ID, 5)
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.NotNil(t, after[0].Rating)
	assert.InDelta(t, 5.0, *after[0].Rating, 1e-9)
	assert.Equal(t, 1, after[0].TotalReviews)
	assert.Greater(t, after[0].Compatibility, before[0].Compatibility)
}
