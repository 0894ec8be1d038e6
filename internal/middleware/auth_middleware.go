package middleware

import (
	"context"
	"encoding/json"
	"strings"

	"quiz-trail/internal/domain"
	"quiz-trail/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	TokenQueryParam     = "token"
	UserIDKey           = "userID" // int64, set by Protected
	TokenKey            = "token"  // raw bearer token, set by Protected
)

// SessionValidator resolves a bearer token to a user id.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (int64, error)
}

// ExtractToken returns the first non-empty token from the Authorization
// header, the token query parameter or the token field of a JSON body.
func ExtractToken(c *fiber.Ctx) string {
	if h := c.Get(AuthorizationHeader); strings.HasPrefix(h, BearerSchema) {
		if t := strings.TrimSpace(strings.TrimPrefix(h, BearerSchema)); t != "" {
			return t
		}
	}
	if t := c.Query(TokenQueryParam); t != "" {
		return t
	}
	if body := c.Body(); len(body) > 0 && strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var payload struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body, &payload); err == nil {
			return payload.Token
		}
	}
	return ""
}

// Protected rejects requests without a valid session and stores the caller's
// user id and token in the request locals.
func Protected(sessions SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ExtractToken(c)
		if token == "" {
			return domain.NewSessionNotFoundError()
		}

		userID, err := sessions.Validate(c.UserContext(), token)
		if err != nil {
			logger.Get().Debug("Session validation failed", zap.String("path", c.Path()), zap.Error(err))
			return err
		}

		c.Locals(UserIDKey, userID)
		c.Locals(TokenKey, token)
		return c.Next()
	}
}

// UserID reads the id stored by Protected.
func UserID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(UserIDKey).(int64)
	return id, ok
}
