package server

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"screen2html/internal/artifact"
	"screen2html/internal/imageio"
	"screen2html/internal/pipeline"
	"screen2html/internal/session"
)

// ErrSessionNotFound is returned for unknown or expired session IDs
var ErrSessionNotFound = errors.New("session not found")

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	var fe *fiber.Error
	var se *pipeline.StageError
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, session.ErrBusy):
		return fiber.StatusConflict
	case pipeline.IsValidation(err),
		errors.Is(err, artifact.ErrEmpty),
		errors.Is(err, imageio.ErrUnsupportedFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, imageio.ErrTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.As(err, &se):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	if code >= fiber.StatusInternalServerError {
		s.log.Error(module, "request failed", map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"status": code,
			"error":  err,
		})
	}

	body := fiber.Map{"message": err.Error()}
	var se *pipeline.StageError
	if errors.As(err, &se) {
		body["message"] = fmt.Sprintf("the model call for %s failed, please try again", se.Stage)
		body["stage"] = se.Stage.String()
	}
	return c.Status(code).JSON(body)
}
