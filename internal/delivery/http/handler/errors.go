package handler

import (
	"errors"

	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/pkg/response"
	"skillswap/internal/usecase"
	"skillswap/internal/validation"

	"github.com/gofiber/fiber/v3"
)

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidSkillType):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid skill type", nil, err)
	case errors.Is(err, usecase.ErrInvalidProficiency):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid proficiency level", nil, err)
	case errors.Is(err, usecase.ErrInvalidParticipants):
		return middleware.NewAppError(fiber.StatusBadRequest, "Learner and mentor must be different users", nil, err)
	case errors.Is(err, usecase.ErrInvalidTimeWindow):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid time window", nil, err)
	case errors.Is(err, usecase.ErrInvalidTopN):
		return middleware.NewAppError(fiber.StatusBadRequest, "top_n must be between 1 and 10", nil, err)
	case errors.Is(err, usecase.ErrInvalidRating):
		return middleware.NewAppError(fiber.StatusBadRequest, "Rating must be between 1 and 5", nil, err)
	case errors.Is(err, usecase.ErrCommentTooLong):
		return middleware.NewAppError(fiber.StatusBadRequest, "Comment must be 1000 characters or less", nil, err)
	case errors.Is(err, usecase.ErrUnknownAction), errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrMentorNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Mentor not found", nil, err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, usecase.ErrMentorCannotTeachSkill):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Mentor does not teach this skill", nil, err)
	case errors.Is(err, usecase.ErrDuplicateActiveRequest):
		return middleware.NewAppError(fiber.StatusConflict, "An active request already exists for this mentor and skill", nil, err)
	case errors.Is(err, usecase.ErrSessionNotCompleted):
		return middleware.NewAppError(fiber.StatusConflict, "Only completed sessions can be reviewed", nil, err)
	case errors.Is(err, usecase.ErrAlreadyReviewed):
		return middleware.NewAppError(fiber.StatusConflict, "Review already submitted for this session", nil, err)
	case errors.Is(err, usecase.ErrInvalidStateTransition):
		return middleware.NewAppError(fiber.StatusConflict, "Invalid state transition", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// bind decodes the JSON body into dst and runs struct validation.
func bind(c fiber.Ctx, dst any) error {
	if err := c.Bind().JSON(dst); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := validation.Struct(dst); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", verr.Fields, err)
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", nil, err)
	}
	return nil
}

func unauthorized() error {
	return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
}
