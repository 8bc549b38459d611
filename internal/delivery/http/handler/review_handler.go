package handler

import (
	"skillswap/internal/delivery/http/dto"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/pkg/response"
	"skillswap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	uc usecase.ReviewUsecase
}

func NewReviewHandler(uc usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

func (h *ReviewHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/sessions/:id/review", h.Submit)
	r.Get("/sessions/:id/review", h.Get)
}

func (h *ReviewHandler) Submit(c fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return unauthorized()
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.SubmitReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rv, err := h.uc.Submit(c.Context(), id, actor, usecase.SubmitReviewInput{Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Review submitted", dto.NewReviewResponse(rv))
}

func (h *ReviewHandler) Get(c fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return unauthorized()
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	rv, err := h.uc.ForSession(c.Context(), id, actor)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewReviewResponse(rv))
}
