package validation

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"quiz-trail/internal/domain"

	"github.com/google/uuid"
)

const (
	maxCommentaryLength = 4000
	maxAttemptItems     = 500
	maxFeedbackRecords  = 1000
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateLoginRequest validates the login credentials
func (v *Validator) ValidateLoginRequest(email, password string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(email) == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	} else if _, err := mail.ParseAddress(email); err != nil {
		errors = append(errors, domain.NewInvalidFormatError("email", email))
	}

	if password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}

	return errors
}

// ValidateAttemptItems validates a submission. An empty submission is rejected.
func (v *Validator) ValidateAttemptItems(items []domain.AttemptItem) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(items) == 0 {
		return append(errors, domain.NewMissingFieldError("items"))
	}
	if len(items) > maxAttemptItems {
		return append(errors, domain.NewOutOfRangeError("items", len(items), 1, maxAttemptItems))
	}

	for i, item := range items {
		if item.QuestionID <= 0 {
			errors = append(errors, domain.NewInvalidFormatError(fmt.Sprintf("items[%d].question_id", i), item.QuestionID))
		}
		if n := len(item.Commentary); n > maxCommentaryLength {
			errors = append(errors, domain.NewOutOfRangeError(fmt.Sprintf("items[%d].commentary", i), n, 0, maxCommentaryLength))
		}
	}

	return errors
}

// ValidateAttemptID checks that the id is a UUID as issued at submission
func (v *Validator) ValidateAttemptID(attemptID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(attemptID) == "" {
		errors = append(errors, domain.NewMissingFieldError("attempt_id"))
	} else if _, err := uuid.Parse(attemptID); err != nil {
		errors = append(errors, domain.NewInvalidFormatError("attempt_id", attemptID))
	}

	return errors
}

// ValidateQuestionID parses a positive numeric question id
func (v *Validator) ValidateQuestionID(raw string) (int64, domain.ValidationErrors) {
	if strings.TrimSpace(raw) == "" {
		return 0, domain.ValidationErrors{domain.NewMissingFieldError("question_id")}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError("question_id", raw)}
	}
	return id, nil
}

// ValidateFeedbackRecords validates the batch sent for feedback. An empty
// batch is allowed and yields "no data" for every tag.
func (v *Validator) ValidateFeedbackRecords(records []domain.FeedbackRecord) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(records) > maxFeedbackRecords {
		return append(errors, domain.NewOutOfRangeError("records", len(records), 0, maxFeedbackRecords))
	}

	// Untagged records are valid; they simply match no configured tag.
	for i, r := range records {
		if r.TimeTaken < 0 {
			errors = append(errors, domain.NewInvalidFormatError(fmt.Sprintf("records[%d].time_taken", i), r.TimeTaken))
		}
	}

	return errors
}
