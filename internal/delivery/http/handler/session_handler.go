package handler

import (
	"strconv"

	"skillswap/internal/delivery/http/dto"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/domain/session"
	"skillswap/internal/pkg/response"
	"skillswap/internal/repository"
	"skillswap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SessionHandler struct {
	uc usecase.SessionUsecase
}

func NewSessionHandler(uc usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/sessions")
	grp.Post("/", h.Create)
	grp.Get("/", h.List)
	grp.Get("/pending", h.Pending)
	grp.Get("/:id", h.Get)
	grp.Post("/:id/confirm", h.transition(session.ActionConfirm))
	grp.Post("/:id/decline", h.transition(session.ActionDecline))
	grp.Post("/:id/cancel", h.transition(session.ActionCancel))
	grp.Post("/:id/complete", h.transition(session.ActionComplete))
	grp.Post("/:id/reschedule", h.Reschedule)
	grp.Post("/:id/accept-reschedule", h.transition(session.ActionAcceptReschedule))
	grp.Post("/:id/decline-reschedule", h.transition(session.ActionDeclineReschedule))
}

func (h *SessionHandler) Create(c fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return unauthorized()
	}

	var req dto.CreateSessionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := h.uc.CreateRequest(c.Context(), actor, usecase.CreateSessionInput{
		MentorID: req.MentorID,
		SkillID:  req.SkillID,
		Window:   session.TimeWindow{Start: req.StartTime, End: req.EndTime},
		Notes:    req.Notes,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Session requested", dto.NewSessionResponse(created))
}

func (h *SessionHandler) List(c fiber.Ctx) error {
	return h.list(c, false)
}

func (h *SessionHandler) Pending(c fiber.Ctx) error {
	return h.list(c, true)
}

func (h *SessionHandler) list(c fiber.Ctx, pendingOnly bool) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return unauthorized()
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			return middleware.NewAppError(fiber.StatusBadRequest, "limit must be between 1 and 200", nil, err)
		}
		limit = n
	}

	items, err := h.uc.ListForUser(c.Context(), actor, usecase.SessionListFilter{
		Role:        repository.ParticipantRole(c.Query("role")),
		PendingOnly: pendingOnly,
		Limit:       limit,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionResponses(items))
}

func (h *SessionHandler) Get(c fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return unauthorized()
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	req, err := h.uc.Get(c.Context(), id, actor)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionResponse(req))
}

func (h *SessionHandler) Reschedule(c fiber.Ctx) error {
	var req dto.RescheduleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	proposed := session.TimeWindow{Start: req.StartTime, End: req.EndTime}
	return h.apply(c, usecase.TransitionInput{Action: session.ActionReschedule, Proposed: &proposed})
}

func (h *SessionHandler) transition(action session.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		return h.apply(c, usecase.TransitionInput{Action: action})
	}
}

func (h *SessionHandler) apply(c fiber.Ctx, in usecase.TransitionInput) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return unauthorized()
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	next, err := h.uc.Transition(c.Context(), id, actor, in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionResponse(next))
}
