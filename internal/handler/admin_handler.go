package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuscore/catalog-api/internal/service"
	"github.com/campuscore/catalog-api/internal/store"
	"github.com/campuscore/catalog-api/internal/utils"
)

// AdminHandler exposes the administrative operations: switching the
// active storage backend and rebuilding the search index.
type AdminHandler struct {
	selector *store.Selector
	indexer  service.IndexService
	logger   zerolog.Logger
}

// NewAdminHandler builds an admin handler instance. The indexer may be
// nil when the embedding provider is not configured.
func NewAdminHandler(selector *store.Selector, indexer service.IndexService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		selector: selector,
		indexer:  indexer,
		logger:   logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Post("/backend", h.switchBackend)
	router.Post("/reindex", h.rebuildIndex)
}

type backendRequest struct {
	Backend string `json:"backend"`
}

func (h *AdminHandler) switchBackend(c *fiber.Ctx) error {
	var payload backendRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, KindInvalidRequest, "invalid request body")
	}

	if err := h.selector.Use(payload.Backend); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, KindInvalidRequest, err.Error())
	}

	return utils.SendSuccess(c, "storage backend switched", fiber.Map{"backend": payload.Backend})
}

func (h *AdminHandler) rebuildIndex(c *fiber.Ctx) error {
	if h.indexer == nil {
		return utils.SendError(c, fiber.StatusServiceUnavailable, KindSearchUnavailable, "indexing is not configured")
	}

	count, err := h.indexer.Rebuild(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("index rebuild failed")
		return utils.SendError(c, fiber.StatusInternalServerError, KindStoreError, "index rebuild failed")
	}

	return utils.SendSuccess(c, "search index rebuilt", fiber.Map{"courses_indexed": count})
}
