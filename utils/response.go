package utils

import (
	"clinic-booking/apperrors"
	"clinic-booking/logger"
	"clinic-booking/types"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse renders a service error with its HTTP status. Errors without
// a status become a 500 and are logged.
func ErrorResponse(c *fiber.Ctx, err error) error {
	status := apperrors.StatusOf(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		logger.Error("internal error", err)
		message = "Error interno del servidor"
	}

	var data interface{}
	if extra := apperrors.DataOf(err); extra != nil {
		data = extra
	}

	return c.Status(status).JSON(types.ApiResponse{
		Message: message,
		Status:  status,
		Data:    data,
	})
}
