package api

import (
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"project-hub/internal/service"
	"project-hub/internal/web"
)

type Services struct {
	Auth     service.AuthService
	Projects service.ProjectService
	Tasks    service.TaskService
	Comments service.CommentService
}

type Options struct {
	ServiceName       string
	CORSOrigins       string
	AuthRatePerMinute int
	AuthRateBurst     int
}

func NewApp(svc Services, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               opts.ServiceName,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	app.Use(RequestIDMiddleware())
	app.Use(RequestLogger())
	app.Use(PrometheusMiddleware())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authHandler := NewAuthHandler(svc.Auth)
	projectHandler := NewProjectHandler(svc.Projects)
	taskHandler := NewTaskHandler(svc.Tasks)
	commentHandler := NewCommentHandler(svc.Comments)

	requireAuth := AuthMiddleware(svc.Auth)
	authLimiter := RateLimitMiddleware(opts.AuthRatePerMinute, opts.AuthRateBurst)

	apiRoutes := app.Group("/api")

	authRoutes := apiRoutes.Group("/auth")
	authRoutes.Post("/register", authLimiter, authHandler.Register)
	authRoutes.Post("/login", authLimiter, authHandler.Login)
	authRoutes.Get("/me", requireAuth, authHandler.Me)
	authRoutes.Get("/users", requireAuth, authHandler.ListUsers)

	projectRoutes := apiRoutes.Group("/projects", requireAuth)
	projectRoutes.Get("/", projectHandler.List)
	projectRoutes.Post("/", projectHandler.Create)
	projectRoutes.Get("/:id", projectHandler.Get)
	projectRoutes.Put("/:id", projectHandler.Update)
	projectRoutes.Delete("/:id", projectHandler.Delete)

	taskRoutes := apiRoutes.Group("/tasks", requireAuth)
	taskRoutes.Get("/", taskHandler.List)
	taskRoutes.Post("/", taskHandler.Create)
	taskRoutes.Get("/:id", taskHandler.Get)
	taskRoutes.Put("/:id", taskHandler.Update)
	taskRoutes.Delete("/:id", taskHandler.Delete)

	commentRoutes := apiRoutes.Group("/comments", requireAuth)
	commentRoutes.Get("/", commentHandler.List)
	commentRoutes.Post("/", commentHandler.Create)
	commentRoutes.Get("/:id", commentHandler.Get)
	commentRoutes.Put("/:id", commentHandler.Update)
	commentRoutes.Delete("/:id", commentHandler.Delete)

	// unmatched API paths must not fall through to the client bundle
	apiRoutes.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	app.Use(web.Handler())

	return app
}
