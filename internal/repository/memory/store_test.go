package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillswap/internal/domain/session"
	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"
	"skillswap/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(learner, mentor, sk uuid.UUID) session.Request {
	now := time.Now().UTC()
	return session.Request{
		ID: uuid.New(), LearnerID: learner, MentorID: mentor, SkillID: sk,
		Window:    session.TimeWindow{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)},
		Status:    session.StatusRequested,
		CreatedAt: now, UpdatedAt: now,
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	s := NewStore()
	l := s.AddUser(user.User{Name: "L"})
	m := s.AddUser(user.User{Name: "M"})
	sk := s.AddSkill("Go")

	boom := errors.New("boom")
	err := s.WithinTx(context.Background(), func(r repository.Repositories) error {
		require.NoError(t, r.Sessions.Insert(context.Background(), newRequest(l.ID, m.ID, sk.ID)))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Sessions())
}

func TestWithinTx_CommitErrorDiscardsWork(t *testing.T) {
	s := NewStore()
	s.CommitErr = errors.New("commit failed")

	err := s.WithinTx(context.Background(), func(r repository.Repositories) error {
		return r.Sessions.Insert(context.Background(), newRequest(uuid.New(), uuid.New(), uuid.New()))
	})
	assert.Error(t, err)
	assert.Empty(t, s.Sessions())
}

func TestSessions_ActiveUniqueness(t *testing.T) {
	s := NewStore()
	l, m, sk := uuid.New(), uuid.New(), uuid.New()
	ctx := context.Background()

	first := newRequest(l, m, sk)
	require.NoError(t, s.WithinTx(ctx, func(r repository.Repositories) error {
		return r.Sessions.Insert(ctx, first)
	}))

	err := s.WithinTx(ctx, func(r repository.Repositories) error {
		return r.Sessions.Insert(ctx, newRequest(l, m, sk))
	})
	assert.ErrorIs(t, err, repository.ErrActiveRequestExists)

	// terminal rows do not count
	cancelled := first
	cancelled.Status = session.StatusCancelled
	require.NoError(t, s.WithinTx(ctx, func(r repository.Repositories) error {
		ok, err := r.Sessions.UpdateState(ctx, cancelled, session.StatusRequested)
		assert.True(t, ok)
		return err
	}))
	require.NoError(t, s.WithinTx(ctx, func(r repository.Repositories) error {
		return r.Sessions.Insert(ctx, newRequest(l, m, sk))
	}))
}

func TestSessions_UpdateStateCompareAndSwap(t *testing.T) {
	s := NewStore()
	req := newRequest(uuid.New(), uuid.New(), uuid.New())
	s.PutSession(req)
	ctx := context.Background()

	next := req
	next.Status = session.StatusConfirmed
	require.NoError(t, s.WithinTx(ctx, func(r repository.Repositories) error {
		ok, err := r.Sessions.UpdateState(ctx, next, session.StatusConfirmed)
		assert.False(t, ok)
		return err
	}))
	assert.Equal(t, session.StatusRequested, s.Sessions()[0].Status)
}

func TestUserSkills_FindUserIDsWithSkillsMatchesAliases(t *testing.T) {
	s := NewStore()
	py := s.AddSkill("Python")
	a := uuid.New()
	b := uuid.New()
	s.AddUserSkill(skill.Record{UserID: a, SkillID: py.ID, Type: "Offer"})
	s.AddUserSkill(skill.Record{UserID: b, SkillID: py.ID, Type: "learn"})

	var ids []uuid.UUID
	require.NoError(t, s.ReadSnapshot(context.Background(), func(r repository.Repositories) error {
		var err error
		ids, err = r.UserSkills.FindUserIDsWithSkills(context.Background(), []uuid.UUID{py.ID}, skill.TypeTeach)
		return err
	}))
	assert.Equal(t, []uuid.UUID{a}, ids)
}

func TestReviews_MentorRatings(t *testing.T) {
	s := NewStore()
	m := uuid.New()
	s.AddReview(m, 5)
	s.AddReview(m, 4)

	require.NoError(t, s.ReadSnapshot(context.Background(), func(r repository.Repositories) error {
		got, err := r.Reviews.MentorRatings(context.Background(), []uuid.UUID{m, uuid.New()})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.InDelta(t, 4.5, got[m].Average, 1e-9)
		assert.Equal(t, 2, got[m].Total)
		return nil
	}))
}
