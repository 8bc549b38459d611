package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newRequest(status Status) Request {
	return Request{
		ID:        uuid.New(),
		LearnerID: uuid.New(),
		MentorID:  uuid.New(),
		SkillID:   uuid.New(),
		Window:    TimeWindow{Start: now.Add(24 * time.Hour), End: now.Add(25 * time.Hour)},
		Status:    status,
	}
}

var allActions = []Action{
	ActionConfirm, ActionDecline, ActionCancel, ActionComplete,
	ActionReschedule, ActionAcceptReschedule, ActionDeclineReschedule,
}

func TestNext_TerminalStatesRejectEverything(t *testing.T) {
	for _, st := range []Status{StatusCompleted, StatusDeclined, StatusCancelled} {
		r := newRequest(st)
		for _, a := range allActions {
			for _, actor := range []Actor{
				{ID: r.LearnerID, Role: RoleStudent},
				{ID: r.MentorID, Role: RoleStudent},
				{ID: uuid.New(), Role: RoleAdmin},
			} {
				_, err := Next(r, a, actor)
				assert.ErrorIs(t, err, ErrInvalidStateTransition, "%s/%s", st, a)
			}
		}
	}
}

func TestNext_MentorConfirmsAndDeclines(t *testing.T) {
	r := newRequest(StatusRequested)
	mentor := Actor{ID: r.MentorID, Role: RoleStudent}
	learner := Actor{ID: r.LearnerID, Role: RoleStudent}

	to, err := Next(r, ActionConfirm, mentor)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, to)

	to, err = Next(r, ActionDecline, mentor)
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, to)

	_, err = Next(r, ActionConfirm, learner)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = Next(r, ActionConfirm, Actor{ID: uuid.New(), Role: RoleAdmin})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestNext_LegalityCheckedBeforeActor(t *testing.T) {
	r := newRequest(StatusConfirmed)
	_, err := Next(r, ActionConfirm, Actor{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestNext_Cancel(t *testing.T) {
	for _, st := range []Status{StatusRequested, StatusConfirmed} {
		r := newRequest(st)
		for _, actor := range []Actor{
			{ID: r.LearnerID, Role: RoleStudent},
			{ID: r.MentorID, Role: RoleStudent},
			{ID: uuid.New(), Role: RoleAdmin},
		} {
			to, err := Next(r, ActionCancel, actor)
			require.NoError(t, err)
			assert.Equal(t, StatusCancelled, to)
		}
		_, err := Next(r, ActionCancel, Actor{ID: uuid.New(), Role: RoleStudent})
		assert.ErrorIs(t, err, ErrForbidden)
	}

	_, err := Next(newRequest(StatusRescheduleRequested), ActionCancel, Actor{Role: RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestNext_CompleteOnlyFromConfirmed(t *testing.T) {
	r := newRequest(StatusRequested)
	_, err := Next(r, ActionComplete, Actor{ID: r.LearnerID})
	assert.ErrorIs(t, err, ErrInvalidStateTransition)

	r.Status = StatusConfirmed
	to, err := Next(r, ActionComplete, Actor{ID: r.LearnerID})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, to)
}

func TestApply_RescheduleRoundTrip(t *testing.T) {
	r := newRequest(StatusConfirmed)
	learner := Actor{ID: r.LearnerID, Role: RoleStudent}
	mentor := Actor{ID: r.MentorID, Role: RoleStudent}
	proposed := TimeWindow{Start: now.Add(48 * time.Hour), End: now.Add(49 * time.Hour)}

	_, err := Apply(r, ActionReschedule, learner, nil, now)
	assert.ErrorIs(t, err, ErrInvalidTimeWindow)

	pending, err := Apply(r, ActionReschedule, learner, &proposed, now)
	require.NoError(t, err)
	assert.Equal(t, StatusRescheduleRequested, pending.Status)
	require.NotNil(t, pending.RescheduleRequestedBy)
	assert.Equal(t, r.LearnerID, *pending.RescheduleRequestedBy)
	assert.Equal(t, r.Window, pending.Window)

	_, err = Apply(pending, ActionAcceptReschedule, learner, nil, now)
	assert.ErrorIs(t, err, ErrForbidden, "proposer cannot accept own proposal")

	accepted, err := Apply(pending, ActionAcceptReschedule, mentor, nil, now)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, accepted.Status)
	assert.Equal(t, proposed, accepted.Window)
	assert.Nil(t, accepted.ProposedWindow)
	assert.Nil(t, accepted.RescheduleRequestedBy)

	declined, err := Apply(pending, ActionDeclineReschedule, mentor, nil, now)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, declined.Status)
	assert.Equal(t, r.Window, declined.Window)
	assert.Nil(t, declined.ProposedWindow)
}

func TestApply_RejectsPastProposal(t *testing.T) {
	r := newRequest(StatusConfirmed)
	past := TimeWindow{Start: now.Add(-time.Hour), End: now}
	_, err := Apply(r, ActionReschedule, Actor{ID: r.MentorID}, &past, now)
	assert.ErrorIs(t, err, ErrInvalidTimeWindow)
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("accept_reschedule")
	require.NoError(t, err)
	assert.Equal(t, ActionAcceptReschedule, a)

	_, err = ParseAction("approve")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestTimeWindowValidate(t *testing.T) {
	assert.ErrorIs(t, TimeWindow{}.Validate(now), ErrInvalidTimeWindow)
	assert.ErrorIs(t, TimeWindow{Start: now.Add(2 * time.Hour), End: now.Add(time.Hour)}.Validate(now), ErrInvalidTimeWindow)
	assert.NoError(t, TimeWindow{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)}.Validate(now))
}

func TestStatusClassification(t *testing.T) {
	assert.True(t, StatusRequested.IsActive())
	assert.True(t, StatusRescheduleRequested.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.False(t, StatusDeclined.IsActive())
	assert.False(t, StatusCompleted.IsActive())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}
