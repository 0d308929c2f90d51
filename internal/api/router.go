package api

import (
	"invoice-rag/docs"
	"invoice-rag/internal/api/handlers"
	"invoice-rag/pkg/auth"
	"invoice-rag/pkg/config"
	"invoice-rag/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter builds the HTTP app. When jwtManager is nil the invoice
// routes are served without authentication.
func SetupRouter(
	invoiceHandler *handlers.InvoiceHandler,
	jwtManager *auth.JWTManager,
	serverCfg config.ServerConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
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
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// importing docs registers the swagger document through init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", invoiceHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	var routes fiber.Router = app
	if jwtManager != nil {
		routes = app.Group("/", middleware.AuthMiddleware(jwtManager, appLogger))
	} else {
		appLogger.Warn("JWT_SECRET_KEY is not set, invoice routes are public")
	}

	routes.Post("/process", invoiceHandler.Process)
	routes.Post("/query", invoiceHandler.Query)
	routes.Post("/extract", invoiceHandler.Extract)
	routes.Get("/extractions", invoiceHandler.ListExtractions)
	routes.Get("/extractions/export", invoiceHandler.ExportExtractions)

	return app
}
