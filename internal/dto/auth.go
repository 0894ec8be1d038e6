package dto

import "time"

// LoginRequest represents the credentials posted to /api/login
// @Description Email and password of a seeded user
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token for later requests
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// TokenRequest is accepted by endpoints that take the token in the body
type TokenRequest struct {
	Token string `json:"token,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports the state of the service dependencies
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}
