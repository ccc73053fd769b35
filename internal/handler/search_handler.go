package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuscore/catalog-api/internal/search"
	"github.com/campuscore/catalog-api/internal/service"
	"github.com/campuscore/catalog-api/internal/utils"
)

// SearchHandler exposes the hybrid course search endpoint.
type SearchHandler struct {
	service service.SearchService
	logger  zerolog.Logger
}

// NewSearchHandler builds a search handler instance.
func NewSearchHandler(service service.SearchService, logger zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger.With().Str("component", "search_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SearchHandler) Register(router fiber.Router) {
	router.Get("", h.search)
}

func (h *SearchHandler) search(c *fiber.Ctx) error {
	filters := search.Filters{
		Term:       c.Query("term"),
		Instructor: c.Query("instructor"),
		Major:      c.Query("major"),
	}
	// An unparsable level is ignored rather than rejected; the other
	// filters still apply.
	if level, err := parseQueryInt(c, "level"); err == nil {
		filters.Level = level
	}

	results, err := h.service.Search(c.Context(), c.Query("q"), filters)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "search completed", results)
}

func (h *SearchHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidQuery):
		return utils.SendError(c, fiber.StatusBadRequest, KindInvalidQuery, "search query must not be empty")
	case errors.Is(err, service.ErrSearchUnavailable):
		h.logger.Error().Err(err).Msg("search unavailable")
		return utils.SendError(c, fiber.StatusBadGateway, KindSearchUnavailable, "search is currently unavailable")
	default:
		h.logger.Error().Err(err).Msg("search failed")
		return utils.SendError(c, fiber.StatusInternalServerError, KindStoreError, "search failed")
	}
}
