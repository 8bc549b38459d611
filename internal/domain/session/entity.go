package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRequested           Status = "requested"
	StatusConfirmed           Status = "confirmed"
	StatusDeclined            Status = "declined"
	StatusCompleted           Status = "completed"
	StatusCancelled           Status = "cancelled"
	StatusRescheduleRequested Status = "reschedule_requested"
)

// ActiveStatuses are the non-terminal statuses. At most one request per
// (learner, mentor, skill) may hold one of them.
var ActiveStatuses = []Status{StatusRequested, StatusConfirmed, StatusRescheduleRequested}

// PendingStatuses are the active statuses still waiting on an answer.
var PendingStatuses = []Status{StatusRequested, StatusRescheduleRequested}

func (s Status) IsActive() bool {
	return s != "" && !s.IsTerminal()
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusDeclined, StatusCancelled:
		return true
	default:
		return false
	}
}

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

type Actor struct {
	ID   uuid.UUID
	Role Role
}

var ErrInvalidTimeWindow = errors.New("invalid time window")

type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Validate requires a non-empty window that starts after now.
func (w TimeWindow) Validate(now time.Time) error {
	if w.Start.IsZero() || w.End.IsZero() {
		return ErrInvalidTimeWindow
	}
	if !w.End.After(w.Start) {
		return ErrInvalidTimeWindow
	}
	if !w.Start.After(now) {
		return ErrInvalidTimeWindow
	}
	return nil
}

type Request struct {
	ID                    uuid.UUID
	LearnerID             uuid.UUID
	MentorID              uuid.UUID
	SkillID               uuid.UUID
	Window                TimeWindow
	Status                Status
	ProposedWindow        *TimeWindow
	RescheduleRequestedBy *uuid.UUID
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (r Request) IsParticipant(userID uuid.UUID) bool {
	return userID == r.LearnerID || userID == r.MentorID
}

// Counterpart returns the participant on the other side of userID. Non-participants
// (admins acting on a session) get the learner.
func (r Request) Counterpart(userID uuid.UUID) uuid.UUID {
	if userID == r.LearnerID {
		return r.MentorID
	}
	return r.LearnerID
}

// Observers are the participants to tell about a change made by userID: the
// counterpart, or both participants when userID is not one of them.
func (r Request) Observers(userID uuid.UUID) []uuid.UUID {
	if r.IsParticipant(userID) {
		return []uuid.UUID{r.Counterpart(userID)}
	}
	return []uuid.UUID{r.LearnerID, r.MentorID}
}
