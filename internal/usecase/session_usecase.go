package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skillswap/internal/domain/session"
	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"
	"skillswap/internal/metrics"
	"skillswap/internal/notify"
	"skillswap/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventEmitter receives one event per committed change. Emit must not block
// on delivery.
type EventEmitter interface {
	Emit(ctx context.Context, ev notify.Event)
}

type CreateSessionInput struct {
	MentorID uuid.UUID
	SkillID  uuid.UUID
	Window   session.TimeWindow
	Notes    string
}

type TransitionInput struct {
	Action session.Action
	// Proposed is the new window for a reschedule.
	Proposed *session.TimeWindow
}

type SessionListFilter struct {
	Role        repository.ParticipantRole
	PendingOnly bool
	Limit       int
}

type SessionUsecase interface {
	CreateRequest(ctx context.Context, actor session.Actor, in CreateSessionInput) (session.Request, error)
	Transition(ctx context.Context, id uuid.UUID, actor session.Actor, in TransitionInput) (session.Request, error)
	Get(ctx context.Context, id uuid.UUID, actor session.Actor) (session.Request, error)
	ListForUser(ctx context.Context, actor session.Actor, f SessionListFilter) ([]session.Request, error)
}

type Session struct {
	store   repository.Store
	emitter EventEmitter
	logger  zerolog.Logger
	now     func() time.Time
}

func NewSessionUsecase(store repository.Store, emitter EventEmitter, logger zerolog.Logger) *Session {
	return &Session{store: store, emitter: emitter, logger: logger, now: time.Now}
}

// CreateRequest validates and stores a new request from actor (the learner).
// Checks run in a fixed order so the first failing rule decides the error.
func (u *Session) CreateRequest(ctx context.Context, actor session.Actor, in CreateSessionInput) (session.Request, error) {
	req, err := u.createRequest(ctx, actor, in)
	if err != nil {
		metrics.SessionRequestsRejected.WithLabelValues(rejectReason(err)).Inc()
		if errors.Is(err, ErrInternal) {
			u.logger.Error().Err(err).Str("learner_id", actor.ID.String()).Msg("create session request failed")
		}
		return session.Request{}, err
	}
	metrics.SessionRequestsCreated.Inc()
	u.logger.Info().
		Str("session_id", req.ID.String()).
		Str("learner_id", req.LearnerID.String()).
		Str("mentor_id", req.MentorID.String()).
		Msg("session requested")
	u.emit(ctx, notify.EventSessionRequested, actor.ID, req)
	return req, nil
}

func (u *Session) createRequest(ctx context.Context, actor session.Actor, in CreateSessionInput) (session.Request, error) {
	if actor.ID == uuid.Nil || in.MentorID == uuid.Nil || in.SkillID == uuid.Nil {
		return session.Request{}, ErrInvalidInput
	}
	if actor.ID == in.MentorID {
		return session.Request{}, ErrInvalidParticipants
	}
	now := u.now().UTC()
	if err := in.Window.Validate(now); err != nil {
		return session.Request{}, ErrInvalidTimeWindow
	}

	req := session.Request{
		ID:        uuid.New(),
		LearnerID: actor.ID,
		MentorID:  in.MentorID,
		SkillID:   in.SkillID,
		Window:    session.TimeWindow{Start: in.Window.Start.UTC(), End: in.Window.End.UTC()},
		Status:    session.StatusRequested,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Users.FindByID(ctx, req.LearnerID); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		mentor, err := r.Users.FindByID(ctx, req.MentorID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return ErrMentorNotFound
			}
			return err
		}
		if !mentor.IsActive {
			return ErrMentorNotFound
		}

		if _, err := r.Skills.FindByID(ctx, req.SkillID); err != nil {
			if errors.Is(err, repository.ErrSkillNotFound) {
				return ErrSkillNotFound
			}
			return err
		}

		records, err := r.UserSkills.FindByUserID(ctx, req.MentorID)
		if err != nil {
			return err
		}
		if !skill.CanTeachSkill(req.MentorID, records, req.SkillID) {
			return fmt.Errorf("%w: skill %s", ErrMentorCannotTeachSkill, req.SkillID)
		}

		active, err := r.Sessions.HasActive(ctx, req.LearnerID, req.MentorID, req.SkillID)
		if err != nil {
			return err
		}
		if active {
			return ErrDuplicateActiveRequest
		}

		if err := r.Sessions.Insert(ctx, req); err != nil {
			if errors.Is(err, repository.ErrActiveRequestExists) {
				return ErrDuplicateActiveRequest
			}
			return err
		}
		return nil
	})
	if err != nil {
		return session.Request{}, classify(err)
	}
	return req, nil
}

// Transition applies one action under a row lock. The write is conditional on
// the status read, so a concurrent writer turns this call into
// ErrInvalidStateTransition instead of a lost update.
func (u *Session) Transition(ctx context.Context, id uuid.UUID, actor session.Actor, in TransitionInput) (session.Request, error) {
	label := string(in.Action)
	if _, err := session.ParseAction(label); err != nil {
		label = "unknown"
	}

	next, err := u.transition(ctx, id, actor, in)
	if err != nil {
		outcome := metrics.OutcomeFailure
		if !errors.Is(err, ErrInternal) {
			outcome = metrics.OutcomeRejected
		} else {
			u.logger.Error().Err(err).Str("session_id", id.String()).Str("action", string(in.Action)).Msg("session transition failed")
		}
		metrics.SessionTransitions.WithLabelValues(label, outcome).Inc()
		return session.Request{}, err
	}
	metrics.SessionTransitions.WithLabelValues(label, metrics.OutcomeSuccess).Inc()
	u.logger.Info().Str("session_id", id.String()).Str("action", string(in.Action)).Str("status", string(next.Status)).Msg("session transitioned")

	if t, ok := notify.EventForAction(in.Action); ok {
		u.emit(ctx, t, actor.ID, next)
	}
	return next, nil
}

func (u *Session) transition(ctx context.Context, id uuid.UUID, actor session.Actor, in TransitionInput) (session.Request, error) {
	if id == uuid.Nil || actor.ID == uuid.Nil {
		return session.Request{}, ErrInvalidInput
	}
	if _, err := session.ParseAction(string(in.Action)); err != nil {
		return session.Request{}, ErrUnknownAction
	}

	var next session.Request
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		cur, err := r.Sessions.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return ErrNotFound
			}
			return err
		}

		next, err = session.Apply(cur, in.Action, actor, in.Proposed, u.now().UTC())
		if err != nil {
			return err
		}

		ok, err := r.Sessions.UpdateState(ctx, next, cur.Status)
		if err != nil {
			if errors.Is(err, repository.ErrActiveRequestExists) {
				return ErrDuplicateActiveRequest
			}
			return err
		}
		if !ok {
			return fmt.Errorf("%w: status changed concurrently", ErrInvalidStateTransition)
		}
		return nil
	})
	if err != nil {
		return session.Request{}, classify(err)
	}
	return next, nil
}

func (u *Session) Get(ctx context.Context, id uuid.UUID, actor session.Actor) (session.Request, error) {
	var req session.Request
	err := u.store.ReadSnapshot(ctx, func(r repository.Repositories) error {
		var err error
		req, err = r.Sessions.FindByID(ctx, id)
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrNotFound
		}
		return err
	})
	if err != nil {
		return session.Request{}, classify(err)
	}
	if actor.Role != session.RoleAdmin && !req.IsParticipant(actor.ID) {
		return session.Request{}, ErrForbidden
	}
	return req, nil
}

// ListForUser lists the actor's requests, newest first. PendingOnly keeps the
// ones still waiting on an answer.
func (u *Session) ListForUser(ctx context.Context, actor session.Actor, f SessionListFilter) ([]session.Request, error) {
	switch f.Role {
	case repository.AsAny, repository.AsLearner, repository.AsMentor:
	default:
		return nil, ErrInvalidInput
	}
	filter := repository.SessionFilter{Role: f.Role, Limit: f.Limit}
	if f.PendingOnly {
		filter.Statuses = session.PendingStatuses
	}

	var out []session.Request
	err := u.store.ReadSnapshot(ctx, func(r repository.Repositories) error {
		var err error
		out, err = r.Sessions.ListForUser(ctx, actor.ID, filter)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (u *Session) emit(ctx context.Context, t notify.EventType, actorID uuid.UUID, req session.Request) {
	if u.emitter == nil {
		return
	}
	for _, ev := range notify.NewEvents(t, actorID, req, u.now()) {
		u.emitter.Emit(ctx, ev)
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInvalidParticipants):
		return "invalid_participants"
	case errors.Is(err, ErrInvalidTimeWindow):
		return "invalid_time_window"
	case errors.Is(err, ErrNotFound):
		return "learner_not_found"
	case errors.Is(err, ErrMentorNotFound):
		return "mentor_not_found"
	case errors.Is(err, ErrSkillNotFound):
		return "skill_not_found"
	case errors.Is(err, ErrMentorCannotTeachSkill):
		return "mentor_cannot_teach_skill"
	case errors.Is(err, ErrDuplicateActiveRequest):
		return "duplicate_active_request"
	default:
		return "internal"
	}
}
