package utils

import "github.com/gofiber/fiber/v2"

// APIResponse describes the common structure for API responses. Error
// responses carry a machine-readable kind alongside the human-readable
// message so clients can branch without parsing text.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Kind    string      `json:"kind,omitempty"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}

	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error JSON response with the given status code and
// error kind.
func SendError(c *fiber.Ctx, status int, kind, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
		Kind:    kind,
	})
}

// SendErrorDetails sends an error response carrying structured data, used
// for failures that list offending records (e.g. missing prerequisites).
func SendErrorDetails(c *fiber.Ctx, status int, kind, message string, data interface{}) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Data:    data,
		Message: message,
		Kind:    kind,
	})
}
