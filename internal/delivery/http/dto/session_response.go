package dto

import (
	"time"

	"skillswap/internal/domain/session"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	MentorID  uuid.UUID `json:"mentor_id" validate:"required"`
	SkillID   uuid.UUID `json:"skill_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Notes     string    `json:"notes" validate:"max=1000"`
}

type RescheduleRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

type TimeWindowResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type SessionResponse struct {
	ID                    uuid.UUID           `json:"id"`
	LearnerID             uuid.UUID           `json:"learner_id"`
	MentorID              uuid.UUID           `json:"mentor_id"`
	SkillID               uuid.UUID           `json:"skill_id"`
	Status                string              `json:"status"`
	StartTime             time.Time           `json:"start_time"`
	EndTime               time.Time           `json:"end_time"`
	ProposedWindow        *TimeWindowResponse `json:"proposed_window,omitempty"`
	RescheduleRequestedBy *uuid.UUID          `json:"reschedule_requested_by,omitempty"`
	Notes                 string              `json:"notes,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

func NewSessionResponse(r session.Request) SessionResponse {
	out := SessionResponse{
		ID:                    r.ID,
		LearnerID:             r.LearnerID,
		MentorID:              r.MentorID,
		SkillID:               r.SkillID,
		Status:                string(r.Status),
		StartTime:             r.Window.Start,
		EndTime:               r.Window.End,
		RescheduleRequestedBy: r.RescheduleRequestedBy,
		Notes:                 r.Notes,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
	if r.ProposedWindow != nil {
		out.ProposedWindow = &TimeWindowResponse{StartTime: r.ProposedWindow.Start, EndTime: r.ProposedWindow.End}
	}
	return out
}

func NewSessionResponses(rs []session.Request) []SessionResponse {
	out := make([]SessionResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewSessionResponse(r))
	}
	return out
}
