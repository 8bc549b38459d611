package usecase

import (
	"context"
	"errors"
	"time"

	"skillswap/internal/domain/matching"
	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"
	"skillswap/internal/metrics"
	"skillswap/internal/repository"

	"github.com/google/uuid"
)

type RecommendationUsecase interface {
	Recommend(ctx context.Context, learnerID uuid.UUID, topN int) ([]matching.Match, error)
	BySkill(ctx context.Context, learnerID, skillID uuid.UUID, topN int) ([]matching.Match, error)
	Explain(ctx context.Context, learnerID, mentorID uuid.UUID) (matching.Match, error)
}

// Recommendation reads everything for one call from a single snapshot so
// scores never mix data from different commits.
type Recommendation struct {
	store  repository.Store
	scorer *matching.Scorer
	now    func() time.Time
}

func NewRecommendationUsecase(store repository.Store, scorer *matching.Scorer) *Recommendation {
	return &Recommendation{store: store, scorer: scorer, now: time.Now}
}

func (u *Recommendation) Recommend(ctx context.Context, learnerID uuid.UUID, topN int) ([]matching.Match, error) {
	defer observe("recommend", time.Now())
	if err := matching.ValidateTopN(topN); err != nil {
		return nil, err
	}

	var out []matching.Match
	err := u.store.ReadSnapshot(ctx, func(r repository.Repositories) error {
		desired, err := u.learnSet(ctx, r, learnerID)
		if err != nil {
			return err
		}
		if len(desired) == 0 {
			out = []matching.Match{}
			return nil
		}

		mentorIDs, err := r.UserSkills.FindUserIDsWithSkills(ctx, refIDs(desired), skill.TypeTeach)
		if err != nil {
			return err
		}
		cands, err := u.candidates(ctx, r, without(mentorIDs, learnerID))
		if err != nil {
			return err
		}
		out, err = u.scorer.Rank(desired, cands, topN)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// BySkill ranks mentors teaching skillID. The learner's learn set plus
// skillID forms the desired set.
func (u *Recommendation) BySkill(ctx context.Context, learnerID, skillID uuid.UUID, topN int) ([]matching.Match, error) {
	defer observe("by_skill", time.Now())
	if err := matching.ValidateTopN(topN); err != nil {
		return nil, err
	}
	if skillID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	var out []matching.Match
	err := u.store.ReadSnapshot(ctx, func(r repository.Repositories) error {
		sk, err := r.Skills.FindByID(ctx, skillID)
		if err != nil {
			if errors.Is(err, repository.ErrSkillNotFound) {
				return ErrSkillNotFound
			}
			return err
		}

		desired, err := u.learnSet(ctx, r, learnerID)
		if err != nil {
			return err
		}
		desired = appendRef(desired, skill.Ref{ID: sk.ID, Name: sk.Name})

		mentorIDs, err := r.UserSkills.FindUserIDsWithSkills(ctx, []uuid.UUID{skillID}, skill.TypeTeach)
		if err != nil {
			return err
		}
		cands, err := u.candidates(ctx, r, without(mentorIDs, learnerID))
		if err != nil {
			return err
		}
		out, err = u.scorer.Rank(desired, cands, topN)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// Explain scores one mentor against the learner without ranking.
func (u *Recommendation) Explain(ctx context.Context, learnerID, mentorID uuid.UUID) (matching.Match, error) {
	defer observe("explain", time.Now())
	if mentorID == uuid.Nil {
		return matching.Match{}, ErrInvalidInput
	}

	var out matching.Match
	err := u.store.ReadSnapshot(ctx, func(r repository.Repositories) error {
		desired, err := u.learnSet(ctx, r, learnerID)
		if err != nil {
			return err
		}
		cands, err := u.candidates(ctx, r, []uuid.UUID{mentorID})
		if err != nil {
			return err
		}
		if len(cands) == 0 || len(cands[0].TeachSkills) == 0 {
			return ErrNotFound
		}
		out = u.scorer.Score(desired, cands[0])
		return nil
	})
	if err != nil {
		return matching.Match{}, classify(err)
	}
	return out, nil
}

func (u *Recommendation) learnSet(ctx context.Context, r repository.Repositories, learnerID uuid.UUID) ([]skill.Ref, error) {
	if _, err := r.Users.FindByID(ctx, learnerID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	records, err := r.UserSkills.FindByUserID(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	return skill.RefsOfType(learnerID, records, skill.TypeLearn), nil
}

// candidates loads every scoring input for the given mentors in bulk.
// Unknown or inactive users are skipped.
func (u *Recommendation) candidates(ctx context.Context, r repository.Repositories, mentorIDs []uuid.UUID) ([]matching.Candidate, error) {
	out := make([]matching.Candidate, 0, len(mentorIDs))
	if len(mentorIDs) == 0 {
		return out, nil
	}

	users, err := r.Users.FindByIDs(ctx, mentorIDs)
	if err != nil {
		return nil, err
	}
	records, err := r.UserSkills.FindByUserIDs(ctx, mentorIDs)
	if err != nil {
		return nil, err
	}
	ratings, err := r.Reviews.MentorRatings(ctx, mentorIDs)
	if err != nil {
		return nil, err
	}
	since := u.now().UTC().AddDate(0, 0, -matching.ActivityDays)
	completed, err := r.Sessions.CountCompletedAsMentor(ctx, mentorIDs, since)
	if err != nil {
		return nil, err
	}

	for _, id := range mentorIDs {
		m, ok := users[id]
		if !ok || !m.IsActive {
			continue
		}
		c := matching.Candidate{
			MentorID:        id,
			MentorName:      m.Name,
			TeachSkills:     skill.RefsOfType(id, records, skill.TypeTeach),
			RecentCompleted: completed[id],
		}
		if rt, ok := ratings[id]; ok && rt.Total > 0 {
			avg := rt.Average
			c.AverageRating = &avg
			c.TotalReviews = rt.Total
		}
		out = append(out, c)
	}
	return out, nil
}

func observe(op string, start time.Time) {
	metrics.RecommendationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func refIDs(refs []skill.Ref) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID)
	}
	return out
}

func appendRef(refs []skill.Ref, ref skill.Ref) []skill.Ref {
	for _, r := range refs {
		if r.ID == ref.ID {
			return refs
		}
	}
	out := append(append([]skill.Ref{}, refs...), ref)
	skill.SortRefs(out)
	return out
}

func without(ids []uuid.UUID, drop uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
