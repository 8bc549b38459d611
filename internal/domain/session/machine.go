package session

import (
	"errors"
	"fmt"
	"time"
)

type Action string

const (
	ActionConfirm           Action = "confirm"
	ActionDecline           Action = "decline"
	ActionCancel            Action = "cancel"
	ActionComplete          Action = "complete"
	ActionReschedule        Action = "reschedule"
	ActionAcceptReschedule  Action = "accept_reschedule"
	ActionDeclineReschedule Action = "decline_reschedule"
)

var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrForbidden              = errors.New("actor not allowed to perform action")
	ErrUnknownAction          = errors.New("unknown action")
)

type rule struct {
	from    []Status
	to      Status
	allowed func(r Request, a Actor) bool
}

var rules = map[Action]rule{
	ActionConfirm:           {from: []Status{StatusRequested}, to: StatusConfirmed, allowed: isMentor},
	ActionDecline:           {from: []Status{StatusRequested}, to: StatusDeclined, allowed: isMentor},
	ActionCancel:            {from: []Status{StatusRequested, StatusConfirmed}, to: StatusCancelled, allowed: isParticipantOrAdmin},
	ActionComplete:          {from: []Status{StatusConfirmed}, to: StatusCompleted, allowed: isParticipant},
	ActionReschedule:        {from: []Status{StatusConfirmed}, to: StatusRescheduleRequested, allowed: isParticipant},
	ActionAcceptReschedule:  {from: []Status{StatusRescheduleRequested}, to: StatusConfirmed, allowed: isRescheduleCounterpart},
	ActionDeclineReschedule: {from: []Status{StatusRescheduleRequested}, to: StatusConfirmed, allowed: isRescheduleCounterpart},
}

func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := rules[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// Next checks that action is legal from r.Status and that actor may perform
// it, in that order, and returns the target status.
func Next(r Request, action Action, actor Actor) (Status, error) {
	ru, ok := rules[action]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if !contains(ru.from, r.Status) {
		return "", fmt.Errorf("%w: %s from %s", ErrInvalidStateTransition, action, r.Status)
	}
	if !ru.allowed(r, actor) {
		return "", fmt.Errorf("%w: %s", ErrForbidden, action)
	}
	return ru.to, nil
}

// Apply returns a copy of r with the transition applied. proposed is required
// for ActionReschedule and ignored otherwise.
func Apply(r Request, action Action, actor Actor, proposed *TimeWindow, now time.Time) (Request, error) {
	to, err := Next(r, action, actor)
	if err != nil {
		return Request{}, err
	}

	out := r
	out.Status = to
	out.UpdatedAt = now

	switch action {
	case ActionReschedule:
		if proposed == nil {
			return Request{}, ErrInvalidTimeWindow
		}
		if err := proposed.Validate(now); err != nil {
			return Request{}, err
		}
		w := *proposed
		by := actor.ID
		out.ProposedWindow = &w
		out.RescheduleRequestedBy = &by
	case ActionAcceptReschedule:
		out.Window = *r.ProposedWindow
		out.ProposedWindow = nil
		out.RescheduleRequestedBy = nil
	case ActionDeclineReschedule:
		out.ProposedWindow = nil
		out.RescheduleRequestedBy = nil
	}
	return out, nil
}

func isMentor(r Request, a Actor) bool {
	return a.ID == r.MentorID
}

func isParticipant(r Request, a Actor) bool {
	return r.IsParticipant(a.ID)
}

func isParticipantOrAdmin(r Request, a Actor) bool {
	return a.Role == RoleAdmin || r.IsParticipant(a.ID)
}

func isRescheduleCounterpart(r Request, a Actor) bool {
	if !r.IsParticipant(a.ID) || r.RescheduleRequestedBy == nil || r.ProposedWindow == nil {
		return false
	}
	return *r.RescheduleRequestedBy != a.ID
}

func contains(ss []Status, s Status) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
