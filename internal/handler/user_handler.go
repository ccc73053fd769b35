package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campuscore/catalog-api/internal/service"
	"github.com/campuscore/catalog-api/internal/utils"
)

// UserHandler exposes read-only user and profile lookups.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler builds a user handler instance.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("", h.listUsers)
	router.Get("/:id/student", h.getStudent)
	router.Get("/:id/instructor", h.getInstructor)
}

func (h *UserHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list users failed")
		return utils.SendError(c, fiber.StatusInternalServerError, KindStoreError, "could not list users")
	}
	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *UserHandler) getStudent(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, KindInvalidRequest, "user id must be a positive integer")
	}

	student, err := h.service.GetStudent(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, KindNotFound, "student not found")
		}
		h.logger.Error().Err(err).Msg("get student failed")
		return utils.SendError(c, fiber.StatusInternalServerError, KindStoreError, "could not load student")
	}
	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *UserHandler) getInstructor(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, KindInvalidRequest, "user id must be a positive integer")
	}

	instructor, err := h.service.GetInstructor(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, KindNotFound, "instructor not found")
		}
		h.logger.Error().Err(err).Msg("get instructor failed")
		return utils.SendError(c, fiber.StatusInternalServerError, KindStoreError, "could not load instructor")
	}
	return utils.SendSuccess(c, "instructor retrieved", instructor)
}
