package handler

import (
	"strconv"

	"skillswap/internal/delivery/http/dto"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/pkg/response"
	"skillswap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const defaultTopN = 5

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/recommendations")
	grp.Get("/", h.Recommend)
	grp.Get("/by-skill/:skill_id", h.BySkill)
	grp.Get("/explain/:mentor_id", h.Explain)
}

func (h *RecommendationHandler) Recommend(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}
	topN, err := topNFromQuery(c)
	if err != nil {
		return err
	}

	res, err := h.uc.Recommend(c.Context(), userID, topN)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecommendationResponses(res))
}

func (h *RecommendationHandler) BySkill(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}
	skillID, err := uuid.Parse(c.Params("skill_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	topN, err := topNFromQuery(c)
	if err != nil {
		return err
	}

	res, err := h.uc.BySkill(c.Context(), userID, skillID, topN)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecommendationResponses(res))
}

func (h *RecommendationHandler) Explain(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return unauthorized()
	}
	mentorID, err := uuid.Parse(c.Params("mentor_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.Explain(c.Context(), userID, mentorID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecommendationResponse(res))
}

// topNFromQuery leaves range checking to the usecase so every entry point
// reports the same error.
func topNFromQuery(c fiber.Ctx) (int, error) {
	raw := c.Query("top_n")
	if raw == "" {
		return defaultTopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "top_n must be an integer", nil, err)
	}
	return n, nil
}
