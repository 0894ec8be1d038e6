package middleware

import (
	"quiz-trail/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedAttemptIDKey  = "validated_attempt_id"
	ValidatedQuestionIDKey = "validated_question_id"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateAttemptID checks the :attemptID path parameter
func (vm *ValidationMiddleware) ValidateAttemptID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		attemptID := c.Params("attemptID")

		if errors := vm.validator.ValidateAttemptID(attemptID); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals(ValidatedAttemptIDKey, attemptID)
		return c.Next()
	}
}

// ValidateQuestionID parses the :questionID path parameter
func (vm *ValidationMiddleware) ValidateQuestionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, errors := vm.validator.ValidateQuestionID(c.Params("questionID"))
		if len(errors) > 0 {
			return errors
		}

		c.Locals(ValidatedQuestionIDKey, id)
		return c.Next()
	}
}
