package v1

import (
	"skillswap/internal/delivery/http/handler"
	"skillswap/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth           *middleware.AuthMiddleware
	Skill          *handler.SkillHandler
	UserSkill      *handler.UserSkillHandler
	Session        *handler.SessionHandler
	Review         *handler.ReviewHandler
	Recommendation *handler.RecommendationHandler
}

// Register mounts the versioned API. Every route requires an access token.
func Register(r fiber.Router, h Handlers) {
	if r == nil || h.Auth == nil {
		return
	}

	protected := r.Group("", h.Auth.Middleware())

	if h.Skill != nil {
		h.Skill.RegisterRoutes(protected)
	}
	if h.UserSkill != nil {
		h.UserSkill.RegisterRoutes(protected)
	}
	if h.Session != nil {
		h.Session.RegisterRoutes(protected)
	}
	if h.Review != nil {
		h.Review.RegisterRoutes(protected)
	}
	if h.Recommendation != nil {
		h.Recommendation.RegisterRoutes(protected)
	}
}
