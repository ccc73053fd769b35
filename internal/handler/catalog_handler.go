package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuscore/catalog-api/internal/service"
	"github.com/campuscore/catalog-api/internal/utils"
)

// CatalogHandler exposes read-only course and enrollment views.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler builds a catalog handler instance.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register attaches the course routes to the provided router group.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("", h.listCourses)
	router.Get("/:code", h.getCourse)
}

// RegisterStudentRoutes attaches the per-student enrollment listing.
func (h *CatalogHandler) RegisterStudentRoutes(router fiber.Router) {
	router.Get("/:id/enrollments", h.studentEnrollments)
}

func (h *CatalogHandler) listCourses(c *fiber.Ctx) error {
	courses, err := h.service.ListCourses(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list courses failed")
		return utils.SendError(c, fiber.StatusInternalServerError, KindStoreError, "could not list courses")
	}
	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CatalogHandler) getCourse(c *fiber.Ctx) error {
	course, err := h.service.GetCourse(c.Context(), c.Params("code"))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, KindNotFound, "course not found")
		}
		h.logger.Error().Err(err).Msg("get course failed")
		return utils.SendError(c, fiber.StatusInternalServerError, KindStoreError, "could not load course")
	}
	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CatalogHandler) studentEnrollments(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, KindInvalidRequest, "student id must be a positive integer")
	}

	enrollments, err := h.service.StudentEnrollments(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, KindNotFound, "student not found")
		}
		h.logger.Error().Err(err).Msg("list student enrollments failed")
		return utils.SendError(c, fiber.StatusInternalServerError, KindStoreError, "could not list enrollments")
	}
	return utils.SendSuccess(c, "enrollments retrieved", enrollments)
}
