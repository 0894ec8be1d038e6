package handler

import (
	"quiz-trail/internal/dto"
	"quiz-trail/internal/middleware"
	"quiz-trail/internal/service"
	"quiz-trail/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles login and logout
type AuthHandler struct {
	sessions  service.SessionService
	validator *validation.Validator
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(sessions service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions, validator: validation.NewValidator()}
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	if errs := h.validator.ValidateLoginRequest(req.Email, req.Password); len(errs) > 0 {
		return errs
	}

	session, err := h.sessions.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{Token: session.Token, ExpiresAt: session.ExpiresAt})
}

// Logout godoc
// @Summary Log out
// @Description Revokes the presented token
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals(middleware.TokenKey).(string)
	if err := h.sessions.Logout(c.UserContext(), token); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "logged out"})
}
