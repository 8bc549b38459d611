package handler

import (
	"skillswap/internal/delivery/http/dto"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/pkg/response"
	"skillswap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserSkillHandler struct {
	uc usecase.UserSkillUsecase
}

func NewUserSkillHandler(uc usecase.UserSkillUsecase) *UserSkillHandler {
	return &UserSkillHandler{uc: uc}
}

func (h *UserSkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/me")
	grp.Get("/skills", h.List)
	grp.Post("/skills", h.Add)
	grp.Delete("/skills/:id", h.Delete)
	grp.Get("/capabilities", h.Capabilities)
}

func (h *UserSkillHandler) List(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	items, err := h.uc.ListUserSkills(c.Context(), userID, c.Query("type"))
	if err != nil {
		return mapUsecaseError(err)
	}

	res := make([]dto.UserSkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.NewUserSkillResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *UserSkillHandler) Add(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	var req dto.AddUserSkillRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.uc.AddUserSkill(c.Context(), userID, usecase.AddUserSkillInput{
		SkillID:          req.SkillID,
		Type:             req.SkillType,
		ProficiencyLevel: req.ProficiencyLevel,
		Tags:             req.Tags,
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	status := fiber.StatusOK
	if res.Action == usecase.UserSkillCreated {
		status = fiber.StatusCreated
	}
	return response.Success(c, status, "Skill "+res.Action, dto.AddUserSkillResponse{
		Action: res.Action,
		Skill:  dto.NewUserSkillResponse(res.Item),
	})
}

func (h *UserSkillHandler) Delete(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.RemoveUserSkill(c.Context(), userID, id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *UserSkillHandler) Capabilities(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}

	caps, err := h.uc.Capabilities(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CapabilitiesResponse{
		CanTeach: caps.CanTeach,
		CanLearn: caps.CanLearn,
	})
}
