package app

import (
	"fmt"
	"strings"

	"skillswap/internal/config"
	"skillswap/internal/delivery/http/handler"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/delivery/http/routes"
	v1 "skillswap/internal/delivery/http/routes/v1"
	"skillswap/internal/logger"
	"skillswap/internal/ws"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

type App struct {
	Fiber *fiber.App
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:     c.Config.App.AppName,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	log := logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}).
		With().Str("app", cfg.App.AppName).Str("env", cfg.App.Environment).Logger()

	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log zerolog.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log.With().Str("component", "http").Logger()).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	var pinger handler.Pinger
	if c.DB != nil {
		pinger = c.DB
	}

	routes.NewRegistry(
		handler.NewHealthHandler(pinger),
		ws.NewHandler(c.Hub, logger.Component("ws"), middleware.UserID),
		v1.Handlers{
			Auth:           middleware.NewAuthMiddleware(c.JWT),
			Skill:          handler.NewSkillHandler(c.Skills),
			UserSkill:      handler.NewUserSkillHandler(c.UserSkills),
			Session:        handler.NewSessionHandler(c.Sessions),
			Review:         handler.NewReviewHandler(c.Reviews),
			Recommendation: handler.NewRecommendationHandler(c.Recommendations),
		},
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
