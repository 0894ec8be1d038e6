package server

import (
	"time"

	"quiz-trail/internal/config"
	"quiz-trail/internal/handler"
	"quiz-trail/internal/middleware"
	"quiz-trail/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Sessions service.SessionService
	Attempts service.AttemptService
	Feedback service.FeedbackService
	Health   *handler.HealthHandler
}

// New builds the Fiber application with every route mounted under /api.
func New(cfg config.ServerConfig, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	authHandler := handler.NewAuthHandler(deps.Sessions)
	attemptHandler := handler.NewAttemptHandler(deps.Attempts)
	feedbackHandler := handler.NewFeedbackHandler(deps.Feedback)
	questionHandler := handler.NewQuestionHandler(deps.Attempts)
	validate := middleware.NewValidationMiddleware()
	protected := middleware.Protected(deps.Sessions)

	api := app.Group("/api")
	if deps.Health != nil {
		api.Get("/health", deps.Health.Health)
	}

	api.Post("/login", authHandler.Login)
	api.Post("/logout", protected, authHandler.Logout)

	attempts := api.Group("/attempts", protected)
	attempts.Post("/", attemptHandler.SubmitAttempt)
	attempts.Get("/", attemptHandler.ListAttempts)
	attempts.Get("/:attemptID", validate.ValidateAttemptID(), attemptHandler.GetAttempt)
	attempts.Delete("/:attemptID", validate.ValidateAttemptID(), attemptHandler.DeleteAttempt)

	api.Post("/feedback", protected, feedbackHandler.GetFeedback)
	api.Get("/questions/:questionID", protected, validate.ValidateQuestionID(), questionHandler.GetQuestion)

	return app
}
