package handlers

import (
	"io"
	"os"
	"time"

	"taskapi/internal/middleware"
	"taskapi/internal/models"
	"taskapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// accessLogFormat mirrors one request per line, tagged with the request id and
// the authenticated user when there is one.
const accessLogFormat = "${time} [${locals:requestid}] HTTP ${method} ${path} -> ${status} (${latency}) user=${locals:" +
	middleware.LocalUsername + "} | UA: ${ua}\n"

// AppOptions tunes the Fiber application built by NewApp.
type AppOptions struct {
	// AccessLog enables the request logger middleware.
	AccessLog bool
	// AccessLogOutput receives access log lines. Defaults to stdout.
	AccessLogOutput io.Writer
	// Health, when set, reports extra component states on /health.
	Health func() fiber.Map
}

// NewApp builds the Fiber application with middleware and every route.
func NewApp(authService *services.AuthService, taskService *services.TaskService, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "task-api " + Version,
		ErrorHandler: ErrorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString()[:8] },
	}))
	if opts.AccessLog {
		output := opts.AccessLogOutput
		if output == nil {
			output = os.Stdout
		}
		app.Use(logger.New(logger.Config{
			Next:   func(c *fiber.Ctx) bool { return isDocsPath(c.Path()) },
			Format: accessLogFormat,
			Output: output,
		}))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(models.APIInfo{
			Success: true,
			Message: "Task management API",
			Version: Version,
			Docs:    c.BaseURL() + SwaggerPath,
		})
	})

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		}
		if opts.Health != nil {
			for k, v := range opts.Health() {
				body[k] = v
			}
		}
		return c.Status(fiber.StatusOK).JSON(body)
	})

	RegisterDocsRoutes(app)

	// --- API Routes ---
	api := app.Group("/api")

	// Authentication routes (public)
	NewAuthHandler(authService).RegisterRoutes(api)

	// Task routes (require JWT authentication). The middleware is scoped to
	// /api/tasks so unknown /api paths still answer 404.
	tasks := api.Group("/tasks", middleware.AuthRequired(authService))
	NewTaskHandler(taskService).RegisterRoutes(tasks)

	return app
}
