package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Machine-readable error kinds returned in the response envelope.
const (
	KindInvalidRequest      = "invalid_request"
	KindInvalidQuery        = "invalid_query"
	KindNotFound            = "not_found"
	KindCapacityExceeded    = "capacity_exceeded"
	KindPrerequisitesNotMet = "prerequisites_not_met"
	KindAlreadyEnrolled     = "already_enrolled"
	KindNotEnrolled         = "not_enrolled"
	KindStoreError          = "store_error"
	KindSearchUnavailable   = "search_unavailable"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
