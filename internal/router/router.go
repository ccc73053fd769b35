package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campuscore/catalog-api/internal/config"
	"github.com/campuscore/catalog-api/internal/handler"
	"github.com/campuscore/catalog-api/internal/observability"
	"github.com/campuscore/catalog-api/internal/store"
)

// Dependencies aggregates everything the router needs to wire routes.
type Dependencies struct {
	Config     config.Config
	Selector   *store.Selector
	Search     *handler.SearchHandler
	Enrollment *handler.EnrollmentHandler
	Catalog    *handler.CatalogHandler
	Users      *handler.UserHandler
	Admin      *handler.AdminHandler
}

// Register attaches all API routes to the Fiber application.
func Register(app *fiber.App, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1")
	api.Get("/health", handler.HealthCheck(deps.Config, deps.Selector))

	deps.Search.Register(api.Group("/search"))
	deps.Catalog.Register(api.Group("/courses"))
	deps.Enrollment.Register(api.Group("/enrollments"))
	deps.Catalog.RegisterStudentRoutes(api.Group("/students"))
	deps.Users.Register(api.Group("/users"))
	deps.Admin.Register(api.Group("/admin"))
}
