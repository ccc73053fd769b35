package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campuscore/catalog-api/internal/config"
	"github.com/campuscore/catalog-api/internal/store"
	"github.com/campuscore/catalog-api/internal/utils"
)

// HealthCheck reports service liveness and the active storage backend.
func HealthCheck(cfg config.Config, selector *store.Selector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "service is healthy", fiber.Map{
			"app":     cfg.AppName,
			"env":     cfg.AppEnv,
			"backend": selector.Name(),
		})
	}
}
