package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler maps client errors to their status and everything else to a
// generic 500 that leaks no detail.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error":   http.StatusText(fe.Code),
			"message": fe.Message,
		})
	}

	log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"message": "An unexpected error occurred",
	})
}
