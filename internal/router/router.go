package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahayak-edu/sahayak-api/internal/config"
	"github.com/sahayak-edu/sahayak-api/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EvaluationHandler *handler.EvaluationHandler
	AnswerKeyHandler  *handler.AnswerKeyHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.Register(api)
	}

	if deps.AnswerKeyHandler != nil {
		deps.AnswerKeyHandler.Register(api)
	}
}
