package handlers

import (
	"errors"
	"fmt"
	"log"

	"taskapi/internal/models"
	"taskapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps a service error to its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrDuplicateUsername):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrPasswordTooLong),
		errors.Is(err, services.ErrInvalidTitle):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the failure envelope for err.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return fail(c, status, err.Error())
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.NewErrorResponse(status, message))
}

// parseBody decodes and validates the JSON request body into out. On failure
// it has already written a 400 response and returns false.
func parseBody(c *fiber.Ctx, validate *validator.Validate, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error parsing request body on %s: %v", c.Path(), err)
		return false, fail(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, fail(c, fiber.StatusBadRequest, err.Error())
		}
		e := validationErrors[0]
		return false, fail(c, fiber.StatusBadRequest, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	return true, nil
}

// ErrorHandler renders errors that escape the handlers, including Fiber's own
// 404/405 routing errors, as failure envelopes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := err.Error()

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		switch status {
		case fiber.StatusNotFound:
			message = "Resource not found: " + c.Path()
		case fiber.StatusMethodNotAllowed:
			message = fmt.Sprintf("Method %s is not supported", c.Method())
		case fiber.StatusUnsupportedMediaType:
			message = "Use Content-Type: application/json"
		}
	} else {
		log.Printf("Unhandled exception on %s %s: %v", c.Method(), c.Path(), err)
	}
	return fail(c, status, message)
}
