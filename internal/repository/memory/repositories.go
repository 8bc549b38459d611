package memory

import (
	"bytes"
	"context"
	"sort"
	"time"

	"skillswap/internal/domain/review"
	"skillswap/internal/domain/session"
	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"
	"skillswap/internal/repository"

	"github.com/google/uuid"
)

type users struct{ st *state }

func (r users) FindByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r users) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]user.User, error) {
	out := make(map[uuid.UUID]user.User, len(ids))
	for _, id := range ids {
		if u, ok := r.st.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type skills struct{ st *state }

func (r skills) GetAllSkills(context.Context) ([]skill.Skill, error) {
	out := make([]skill.Skill, 0, len(r.st.skills))
	for _, s := range r.st.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out, nil
}

func (r skills) FindByID(_ context.Context, id uuid.UUID) (skill.Skill, error) {
	s, ok := r.st.skills[id]
	if !ok {
		return skill.Skill{}, repository.ErrSkillNotFound
	}
	return s, nil
}

type userSkills struct{ st *state }

func (r userSkills) FindByUserID(_ context.Context, userID uuid.UUID) ([]skill.Record, error) {
	return r.filter(func(rec skill.Record) bool { return rec.UserID == userID }), nil
}

func (r userSkills) FindByUserIDs(_ context.Context, userIDs []uuid.UUID) ([]skill.Record, error) {
	set := idSet(userIDs)
	return r.filter(func(rec skill.Record) bool {
		_, ok := set[rec.UserID]
		return ok
	}), nil
}

func (r userSkills) FindUserIDsWithSkills(_ context.Context, skillIDs []uuid.UUID, t skill.CanonicalType) ([]uuid.UUID, error) {
	set := idSet(skillIDs)
	seen := map[uuid.UUID]struct{}{}
	out := make([]uuid.UUID, 0)
	for _, rec := range r.st.userSkills {
		if _, ok := set[rec.SkillID]; !ok {
			continue
		}
		if rt, err := skill.Normalize(rec.Type); err != nil || rt != t {
			continue
		}
		if _, ok := seen[rec.UserID]; ok {
			continue
		}
		seen[rec.UserID] = struct{}{}
		out = append(out, rec.UserID)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out, nil
}

func (r userSkills) Create(_ context.Context, rec skill.Record) (skill.Record, error) {
	sk, ok := r.st.skills[rec.SkillID]
	if !ok {
		return skill.Record{}, repository.ErrSkillNotFound
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	rec.SkillName = sk.Name
	r.st.userSkills = append(r.st.userSkills, rec)
	return rec, nil
}

func (r userSkills) UpdateDetails(_ context.Context, id uuid.UUID, t skill.CanonicalType, proficiency string, tags []string) error {
	for i := range r.st.userSkills {
		if r.st.userSkills[i].ID == id {
			r.st.userSkills[i].Type = string(t)
			r.st.userSkills[i].ProficiencyLevel = proficiency
			r.st.userSkills[i].Tags = append([]string{}, tags...)
			return nil
		}
	}
	return repository.ErrUserSkillNotFound
}

func (r userSkills) DeleteByIDs(_ context.Context, ids []uuid.UUID) error {
	set := idSet(ids)
	kept := r.st.userSkills[:0]
	for _, rec := range r.st.userSkills {
		if _, ok := set[rec.ID]; !ok {
			kept = append(kept, rec)
		}
	}
	r.st.userSkills = kept
	return nil
}

func (r userSkills) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	for _, rec := range r.st.userSkills {
		if rec.ID != id {
			continue
		}
		if rec.UserID != userID {
			return repository.ErrUserSkillForbidden
		}
		return r.DeleteByIDs(ctx, []uuid.UUID{id})
	}
	return repository.ErrUserSkillNotFound
}

func (r userSkills) filter(keep func(skill.Record) bool) []skill.Record {
	out := make([]skill.Record, 0)
	for _, rec := range r.st.userSkills {
		if keep(rec) {
			rec.Tags = append([]string(nil), rec.Tags...)
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out
}

type sessions struct{ st *state }

func (r sessions) activeConflict(req session.Request) bool {
	if !req.Status.IsActive() {
		return false
	}
	for id, other := range r.st.sessions {
		if id == req.ID || !other.Status.IsActive() {
			continue
		}
		if other.LearnerID == req.LearnerID && other.MentorID == req.MentorID && other.SkillID == req.SkillID {
			return true
		}
	}
	return false
}

func (r sessions) Insert(_ context.Context, req session.Request) error {
	if r.activeConflict(req) {
		return repository.ErrActiveRequestExists
	}
	r.st.sessions[req.ID] = req
	return nil
}

func (r sessions) HasActive(_ context.Context, learnerID, mentorID, skillID uuid.UUID) (bool, error) {
	for _, s := range r.st.sessions {
		if s.Status.IsActive() && s.LearnerID == learnerID && s.MentorID == mentorID && s.SkillID == skillID {
			return true, nil
		}
	}
	return false, nil
}

func (r sessions) FindByID(_ context.Context, id uuid.UUID) (session.Request, error) {
	s, ok := r.st.sessions[id]
	if !ok {
		return session.Request{}, repository.ErrSessionNotFound
	}
	return s, nil
}

func (r sessions) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (session.Request, error) {
	return r.FindByID(ctx, id)
}

func (r sessions) UpdateState(_ context.Context, next session.Request, expected session.Status) (bool, error) {
	cur, ok := r.st.sessions[next.ID]
	if !ok || cur.Status != expected {
		return false, nil
	}
	if r.activeConflict(next) {
		return false, repository.ErrActiveRequestExists
	}
	r.st.sessions[next.ID] = next
	return true, nil
}

func (r sessions) ListForUser(_ context.Context, userID uuid.UUID, f repository.SessionFilter) ([]session.Request, error) {
	statuses := map[session.Status]struct{}{}
	for _, s := range f.Statuses {
		statuses[s] = struct{}{}
	}
	out := make([]session.Request, 0)
	for _, s := range r.st.sessions {
		switch f.Role {
		case repository.AsLearner:
			if s.LearnerID != userID {
				continue
			}
		case repository.AsMentor:
			if s.MentorID != userID {
				continue
			}
		default:
			if !s.IsParticipant(userID) {
				continue
			}
		}
		if len(statuses) > 0 {
			if _, ok := statuses[s.Status]; !ok {
				continue
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r sessions) CountCompletedAsMentor(_ context.Context, mentorIDs []uuid.UUID, since time.Time) (map[uuid.UUID]int, error) {
	set := idSet(mentorIDs)
	out := make(map[uuid.UUID]int, len(mentorIDs))
	for _, s := range r.st.sessions {
		if _, ok := set[s.MentorID]; !ok {
			continue
		}
		if s.Status == session.StatusCompleted && !s.UpdatedAt.Before(since) {
			out[s.MentorID]++
		}
	}
	return out, nil
}

type reviews struct{ st *state }

func (r reviews) Create(_ context.Context, rv review.Review) (review.Review, error) {
	for _, existing := range r.st.reviews {
		if existing.SessionID == rv.SessionID {
			return review.Review{}, review.ErrAlreadyReviewed
		}
	}
	r.st.reviews = append(r.st.reviews, rv)
	return rv, nil
}

func (r reviews) FindBySessionID(_ context.Context, sessionID uuid.UUID) (review.Review, error) {
	for _, rv := range r.st.reviews {
		if rv.SessionID == sessionID {
			return rv, nil
		}
	}
	return review.Review{}, repository.ErrReviewNotFound
}

func (r reviews) MentorRatings(_ context.Context, mentorIDs []uuid.UUID) (map[uuid.UUID]repository.MentorRating, error) {
	set := idSet(mentorIDs)
	sums := map[uuid.UUID]int{}
	out := make(map[uuid.UUID]repository.MentorRating, len(mentorIDs))
	for _, rv := range r.st.reviews {
		if _, ok := set[rv.MentorID]; !ok {
			continue
		}
		sums[rv.MentorID] += rv.Rating
		mr := out[rv.MentorID]
		mr.Total++
		out[rv.MentorID] = mr
	}
	for id, mr := range out {
		mr.Average = float64(sums[id]) / float64(mr.Total)
		out[id] = mr
	}
	return out, nil
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
