package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuscore/catalog-api/internal/dto"
	"github.com/campuscore/catalog-api/internal/service"
	"github.com/campuscore/catalog-api/internal/utils"
)

// EnrollmentHandler exposes the enroll and drop operations.
type EnrollmentHandler struct {
	service   service.EnrollmentService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEnrollmentHandler builds an enrollment handler instance.
func NewEnrollmentHandler(service service.EnrollmentService, validate *validator.Validate, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Post("", h.enroll)
	router.Delete("", h.drop)
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	payload, err := h.parsePayload(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, KindInvalidRequest, err.Error())
	}

	confirmation, err := h.service.Enroll(c.Context(), payload.StudentID, payload.CourseCode)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, confirmation.Message, confirmation)
}

func (h *EnrollmentHandler) drop(c *fiber.Ctx) error {
	payload, err := h.parsePayload(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, KindInvalidRequest, err.Error())
	}

	confirmation, err := h.service.Drop(c.Context(), payload.StudentID, payload.CourseCode)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, confirmation.Message, confirmation)
}

func (h *EnrollmentHandler) parsePayload(c *fiber.Ctx) (dto.EnrollmentRequest, error) {
	var payload dto.EnrollmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return dto.EnrollmentRequest{}, errors.New("invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return dto.EnrollmentRequest{}, errors.New("student_id and course_id are required")
	}
	return payload, nil
}

func (h *EnrollmentHandler) handleError(c *fiber.Ctx, err error) error {
	var prereqErr *service.PrerequisitesNotMetError
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, KindNotFound, "student not found")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, KindNotFound, "course not found")
	case errors.Is(err, service.ErrCapacityExceeded):
		return utils.SendError(c, fiber.StatusConflict, KindCapacityExceeded, "course is full, enrollment failed")
	case errors.As(err, &prereqErr):
		return utils.SendErrorDetails(c, fiber.StatusConflict, KindPrerequisitesNotMet,
			prereqErr.Error(), fiber.Map{"missing": prereqErr.Missing})
	case errors.Is(err, service.ErrAlreadyEnrolled):
		return utils.SendError(c, fiber.StatusConflict, KindAlreadyEnrolled, "student is already enrolled in this course")
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusConflict, KindNotEnrolled, "student is not enrolled in this course")
	default:
		h.logger.Error().Err(err).Msg("enrollment operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, KindStoreError, "enrollment operation failed")
	}
}
