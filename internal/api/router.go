package api

import (
	"github.com/TeranHc/ugtesis/docs"
	"github.com/TeranHc/ugtesis/internal/api/handlers"
	"github.com/TeranHc/ugtesis/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	chatHandler *handlers.ChatHandler,
	regHandler *handlers.RegulationHandler,
	logHandler *handlers.QueryLogHandler,
	secretKey string,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Secret-Key",
	}))
	app.Use(logger.New())

	// Swagger - importing docs registers the spec via init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// The whole API sits behind the shared-secret header: the chat pipeline
	// is the expensive surface the gate exists for, not just the admin CRUD.
	// An unset secret leaves the API open (local development).
	api := app.Group("/api/v1", middleware.SecretKey(secretKey, appLogger))

	// Chat pipeline
	api.Post("/chat", chatHandler.Ask)

	regulations := api.Group("/regulations")
	regulations.Get("", regHandler.List)
	regulations.Get("/categories", regHandler.Categories)
	regulations.Post("", regHandler.Create)
	regulations.Put("/:id", regHandler.Update)
	regulations.Delete("/:id", regHandler.Delete)

	logs := api.Group("/logs")
	logs.Get("", logHandler.List)
	logs.Delete("", logHandler.DeleteAll)
	logs.Delete("/:id", logHandler.Delete)

	return app
}
