package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/harryrigby/financial-dashboard/internal/analytics"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// CustomErrorHandler renders every handler error as an ErrorResponse.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	title := "Request failed"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		if code == fiber.StatusNotFound {
			title = "Not found"
		}
	case errors.Is(err, analytics.ErrInvalidSymbol):
		code = fiber.StatusBadRequest
		title = "Invalid symbol"
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   title,
		Message: err.Error(),
		Code:    code,
	})
}
