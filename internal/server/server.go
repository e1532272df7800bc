package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mansoorceksport/repflow/internal/config"
	"github.com/mansoorceksport/repflow/internal/domain"
	"github.com/mansoorceksport/repflow/internal/handler"
	"github.com/mansoorceksport/repflow/internal/middleware"
	"github.com/mansoorceksport/repflow/internal/service"
	"github.com/mansoorceksport/repflow/internal/telemetry"
	"github.com/sirupsen/logrus"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config           *config.Config
	Sessions         *service.SessionManager
	IdempotencyStore domain.KVStore
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	sessionHandler := handler.NewSessionHandler(deps.Sessions)

	app := fiber.New(fiber.Config{
		AppName:      "Repflow Session API",
		BodyLimit:    int(deps.Config.Server.BodyLimitKB * 1024),
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Output: logrus.StandardLogger().Writer(),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	app.Use(telemetry.FiberMiddleware())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":          "healthy",
			"service":         "repflow",
			"active_sessions": deps.Sessions.Len(),
		})
	})

	v1 := app.Group("/v1")

	// ===========================================
	// MEMBER API - /v1/me/sessions (member or coach)
	// ===========================================
	sessions := v1.Group("/me/sessions")
	sessions.Use(middleware.VerifyToken(deps.Config.JWT.Secret))
	sessions.Use(middleware.AuthorizeRole(domain.RoleMember, domain.RoleCoach))

	sessions.Post("/", sessionHandler.StartSession)
	sessions.Get("/:workout_id", sessionHandler.GetSession)
	sessions.Delete("/:workout_id", sessionHandler.CloseSession)

	sessions.Patch("/:workout_id/sets", sessionHandler.UpdateSet)
	sessions.Post("/:workout_id/sets/complete", sessionHandler.CompleteSet)
	sessions.Post("/:workout_id/sets/uncomplete", sessionHandler.UncompleteSet)
	sessions.Post("/:workout_id/navigate", sessionHandler.Navigate)

	sessions.Post("/:workout_id/rest/extend", sessionHandler.ExtendRest)
	sessions.Post("/:workout_id/rest/skip", sessionHandler.SkipRest)
	sessions.Put("/:workout_id/unit", sessionHandler.SetUnit)

	sessions.Post("/:workout_id/finish", sessionHandler.FinishEarly)
	sessions.Post("/:workout_id/submit",
		middleware.IdempotencyMiddleware(deps.IdempotencyStore, deps.Config.Server.IdempotencyTTL),
		sessionHandler.Submit,
	)

	sessions.Get("/:workout_id/guards", sessionHandler.Guards)
	sessions.Get("/:workout_id/hint", sessionHandler.Hint)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	logrus.WithError(err).WithField("path", c.Path()).Error("request failed")
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
