package handler

import (
	"quiz-trail/internal/domain"
	"quiz-trail/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func invalidBody(err error) error {
	return domain.NewInvalidInputError("request body is not valid JSON").WithContext("reason", err.Error())
}

// currentUser returns the id stored by middleware.Protected. A missing id
// means the route was registered without it.
func currentUser(c *fiber.Ctx) (int64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, domain.NewSessionNotFoundError()
	}
	return id, nil
}
