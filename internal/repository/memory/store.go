// Package memory is an in-process repository.Store. Write transactions are
// serialized and applied atomically; the one-active-request rule is enforced
// on every write, mirroring the Postgres partial unique index.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"skillswap/internal/domain/review"
	"skillswap/internal/domain/session"
	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"
	"skillswap/internal/repository"

	"github.com/google/uuid"
)

type state struct {
	users      map[uuid.UUID]user.User
	skills     map[uuid.UUID]skill.Skill
	userSkills []skill.Record
	sessions   map[uuid.UUID]session.Request
	reviews    []review.Review
}

func (s *state) clone() *state {
	c := &state{
		users:      make(map[uuid.UUID]user.User, len(s.users)),
		skills:     make(map[uuid.UUID]skill.Skill, len(s.skills)),
		userSkills: make([]skill.Record, len(s.userSkills)),
		sessions:   make(map[uuid.UUID]session.Request, len(s.sessions)),
		reviews:    append([]review.Review(nil), s.reviews...),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.skills {
		c.skills[k] = v
	}
	for i, r := range s.userSkills {
		r.Tags = append([]string(nil), r.Tags...)
		c.userSkills[i] = r
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	return c
}

type Store struct {
	mu  sync.RWMutex
	cur *state

	// CommitErr, when set, fails the next write transaction after fn succeeds.
	CommitErr error
}

func NewStore() *Store {
	return &Store{cur: &state{
		users:    map[uuid.UUID]user.User{},
		skills:   map[uuid.UUID]skill.Skill{},
		sessions: map[uuid.UUID]session.Request{},
	}}
}

func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.cur.clone()
	if err := fn(repos(work)); err != nil {
		return err
	}
	if s.CommitErr != nil {
		err := s.CommitErr
		s.CommitErr = nil
		return err
	}
	s.cur = work
	return nil
}

func (s *Store) ReadSnapshot(ctx context.Context, fn func(repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(repos(s.cur))
}

func repos(st *state) repository.Repositories {
	return repository.Repositories{
		Users:      users{st},
		Skills:     skills{st},
		UserSkills: userSkills{st},
		Sessions:   sessions{st},
		Reviews:    reviews{st},
	}
}

// Seeding helpers for tests and local runs.

func (s *Store) AddUser(u user.User) user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = user.RoleStudent
	}
	u.IsActive = true
	s.cur.users[u.ID] = u
	return u
}

func (s *Store) AddSkill(name string) skill.Skill {
	s.mu.Lock()
	defer s.mu.Unlock()
	sk := skill.Skill{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	s.cur.skills[sk.ID] = sk
	return sk
}

// AddUserSkill stores rec as given, raw type included.
func (s *Store) AddUserSkill(rec skill.Record) skill.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.SkillName = s.cur.skills[rec.SkillID].Name
	s.cur.userSkills = append(s.cur.userSkills, rec)
	return rec
}

func (s *Store) PutSession(req session.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.sessions[req.ID] = req
}

// AddReview stores a rating for mentorID against a session that need not exist.
func (s *Store) AddReview(mentorID uuid.UUID, rating int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.reviews = append(s.cur.reviews, review.Review{
		ID: uuid.New(), SessionID: uuid.New(), MentorID: mentorID, Rating: rating, CreatedAt: time.Now().UTC(),
	})
}

func (s *Store) Reviews() []review.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]review.Review(nil), s.cur.reviews...)
}

func (s *Store) Sessions() []session.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]session.Request, 0, len(s.cur.sessions))
	for _, r := range s.cur.sessions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0 })
	return out
}

func (s *Store) UserSkillRows(userID uuid.UUID) []skill.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]skill.Record, 0)
	for _, r := range s.cur.userSkills {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}
