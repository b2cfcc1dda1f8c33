package serverutils

import "github.com/gofiber/fiber/v2"

// SuccessResponse wraps a payload in the standard success envelope.
func SuccessResponse(message string, data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	}
}

// ErrorResponse builds the standard error envelope.
func ErrorResponse(code int, message string) fiber.Map {
	return fiber.Map{
		"success": false,
		"code":    code,
		"error":   message,
	}
}
