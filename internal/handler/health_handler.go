package handler

import (
	"context"
	"time"

	"quiz-trail/internal/domain"
	"quiz-trail/internal/dto"
	"quiz-trail/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// DBPinger is satisfied by *sqlx.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db    DBPinger
	cache domain.Cache // nil when Redis is not configured
}

func NewHealthHandler(db DBPinger, cache domain.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health godoc
// @Summary Service health
// @Description Database failures make the service unhealthy; a missing or failing cache only degrades it.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: "up", Cache: "disabled"}
	status := fiber.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		logger.Get().Error("Health check: database ping failed", zap.Error(err))
		resp.Status, resp.Database = "unavailable", "down"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		resp.Cache = "up"
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Health check: cache ping failed", zap.Error(err))
			resp.Cache = "down"
			if status == fiber.StatusOK {
				resp.Status = "degraded"
			}
		}
	}

	return c.Status(status).JSON(resp)
}
