package notify

import (
	"time"

	"skillswap/internal/domain/session"

	"github.com/google/uuid"
)

type EventType string

const (
	EventSessionRequested           EventType = "session_requested"
	EventSessionConfirmed           EventType = "session_confirmed"
	EventSessionDeclined            EventType = "session_declined"
	EventSessionCompleted           EventType = "session_completed"
	EventSessionCancelled           EventType = "session_cancelled"
	EventSessionRescheduleRequested EventType = "session_reschedule_requested"
	EventSessionRescheduleAccepted  EventType = "session_reschedule_accepted"
	EventSessionRescheduleDeclined  EventType = "session_reschedule_declined"
)

var eventByAction = map[session.Action]EventType{
	session.ActionConfirm:           EventSessionConfirmed,
	session.ActionDecline:           EventSessionDeclined,
	session.ActionComplete:          EventSessionCompleted,
	session.ActionCancel:            EventSessionCancelled,
	session.ActionReschedule:        EventSessionRescheduleRequested,
	session.ActionAcceptReschedule:  EventSessionRescheduleAccepted,
	session.ActionDeclineReschedule: EventSessionRescheduleDeclined,
}

var messages = map[EventType]string{
	EventSessionRequested:           "New session request on SkillSwap",
	EventSessionConfirmed:           "Your session was confirmed on SkillSwap",
	EventSessionDeclined:            "Session request update on SkillSwap",
	EventSessionCompleted:           "Session marked completed on SkillSwap",
	EventSessionCancelled:           "Session cancelled on SkillSwap",
	EventSessionRescheduleRequested: "Reschedule request on SkillSwap",
	EventSessionRescheduleAccepted:  "Reschedule accepted on SkillSwap",
	EventSessionRescheduleDeclined:  "Reschedule declined on SkillSwap",
}

// EventForAction maps a transition to its event. Every session action has one.
func EventForAction(a session.Action) (EventType, bool) {
	t, ok := eventByAction[a]
	return t, ok
}

type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	ActorID   uuid.UUID `json:"actor_id"`
	SubjectID uuid.UUID `json:"subject_id"`
	SessionID uuid.UUID `json:"session_id"`
	SkillID   uuid.UUID `json:"skill_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// NewEvent builds the event for req after a change made by actorID. The
// subject is the other participant.
func NewEvent(t EventType, actorID uuid.UUID, req session.Request, at time.Time) Event {
	return newEvent(t, actorID, req.Counterpart(actorID), req, at)
}

// NewEvents builds one event per observer of the change. A participant acting
// yields one event; anyone else, such as an admin, yields one per participant.
func NewEvents(t EventType, actorID uuid.UUID, req session.Request, at time.Time) []Event {
	observers := req.Observers(actorID)
	out := make([]Event, 0, len(observers))
	for _, subject := range observers {
		out = append(out, newEvent(t, actorID, subject, req, at))
	}
	return out
}

func newEvent(t EventType, actorID, subjectID uuid.UUID, req session.Request, at time.Time) Event {
	return Event{
		ID:        uuid.New(),
		Type:      t,
		ActorID:   actorID,
		SubjectID: subjectID,
		SessionID: req.ID,
		SkillID:   req.SkillID,
		Status:    string(req.Status),
		Timestamp: at.UTC(),
		Message:   messages[t],
	}
}
