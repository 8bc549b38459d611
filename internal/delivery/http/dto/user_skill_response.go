package dto

import (
	"time"

	"skillswap/internal/usecase"

	"github.com/google/uuid"
)

type AddUserSkillRequest struct {
	SkillID          uuid.UUID `json:"skill_id" validate:"required"`
	SkillType        string    `json:"skill_type" validate:"required,skilltype"`
	ProficiencyLevel string    `json:"proficiency_level" validate:"omitempty,max=32"`
	Tags             []string  `json:"tags" validate:"max=20,dive,max=50"`
}

type UserSkillResponse struct {
	ID               uuid.UUID `json:"id"`
	SkillID          uuid.UUID `json:"skill_id"`
	SkillName        string    `json:"skill_name"`
	SkillType        string    `json:"skill_type"`
	ProficiencyLevel string    `json:"proficiency_level"`
	Tags             []string  `json:"tags"`
	CreatedAt        time.Time `json:"created_at"`
}

type AddUserSkillResponse struct {
	Action string            `json:"action"`
	Skill  UserSkillResponse `json:"skill"`
}

type CapabilitiesResponse struct {
	CanTeach bool `json:"can_teach"`
	CanLearn bool `json:"can_learn"`
}

type SkillResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
}

func NewUserSkillResponse(it usecase.UserSkillItem) UserSkillResponse {
	return UserSkillResponse{
		ID:               it.ID,
		SkillID:          it.SkillID,
		SkillName:        it.SkillName,
		SkillType:        string(it.Type),
		ProficiencyLevel: it.ProficiencyLevel,
		Tags:             it.Tags,
		CreatedAt:        it.CreatedAt,
	}
}
