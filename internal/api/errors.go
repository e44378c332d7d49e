package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"project-hub/internal/service"
	"project-hub/internal/validation"
)

var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrEmailTaken, fiber.StatusConflict, "Email already registered"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "Invalid credentials"},
	{service.ErrTokenExpired, fiber.StatusUnauthorized, "Token has expired"},
	{service.ErrTokenInvalid, fiber.StatusUnauthorized, "Invalid token"},
	{service.ErrForbidden, fiber.StatusForbidden, "Not authorized"},
	{service.ErrUserNotFound, fiber.StatusNotFound, "User not found"},
	{service.ErrProjectNotFound, fiber.StatusNotFound, "Project not found"},
	{service.ErrTaskNotFound, fiber.StatusNotFound, "Task not found"},
	{service.ErrAssigneeNotFound, fiber.StatusNotFound, "Assignee not found"},
	{service.ErrCommentNotFound, fiber.StatusNotFound, "Comment not found"},
}

// statusFor classifies err into an HTTP status and the message safe to show to clients.
func statusFor(err error) (int, string) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return fiber.StatusBadRequest, verr.Error()
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ferr.Code, ferr.Message
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status, e.message
		}
	}

	return fiber.StatusInternalServerError, "Internal server error"
}

// ErrorHandler is the single place where errors become HTTP responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, message := statusFor(err)

	if status == fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "Unhandled request error",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	body := fiber.Map{"error": message}

	var verr *validation.Error
	if errors.As(err, &verr) {
		body["details"] = verr.Fields
	}

	return c.Status(status).JSON(body)
}
