package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Correctness is the outcome recorded for one answered question. The zero
// value means the question was left unanswered.
type Correctness int8

const (
	Unanswered Correctness = iota
	Correct
	Incorrect
)

// CorrectnessFromBool maps a nullable boolean onto the three states.
func CorrectnessFromBool(b *bool) Correctness {
	switch {
	case b == nil:
		return Unanswered
	case *b:
		return Correct
	default:
		return Incorrect
	}
}

// Bool is the inverse of CorrectnessFromBool.
func (c Correctness) Bool() *bool {
	switch c {
	case Correct:
		v := true
		return &v
	case Incorrect:
		v := false
		return &v
	default:
		return nil
	}
}

func (c Correctness) String() string {
	switch c {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unanswered"
	}
}

// MarshalJSON encodes the states as true, false and null.
func (c Correctness) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Bool())
}

func (c *Correctness) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("correctness must be true, false or null: %w", err)
	}
	*c = CorrectnessFromBool(b)
	return nil
}

// AttemptItem is one answer inside a submission.
type AttemptItem struct {
	QuestionID int64
	Result     Correctness
	Commentary string
}

// AnswerRecord is a stored answer row. Rows that share AttemptID and UserID
// form one attempt.
type AnswerRecord struct {
	ID         string
	UserID     int64
	QuestionID int64
	Result     Correctness
	AttemptID  string
	Ordinal    int
	AnsweredAt time.Time
	Commentary string
}

// AttemptSummary is one entry of a user's attempt history.
type AttemptSummary struct {
	AttemptID     string
	SubmittedAt   time.Time
	QuestionCount int
	CorrectCount  int
}

// AnswerDetail is an answer row joined with its question.
type AnswerDetail struct {
	AnswerID      string
	QuestionID    int64
	QuestionText  string
	CorrectAnswer string
	Choices       []string
	Commentary    string
	Tag           string
	Result        Correctness
	Ordinal       int
	AnsweredAt    time.Time
}

// Question is read-only from the attempt subsystem's point of view.
type Question struct {
	ID            int64
	QuestionText  string
	CorrectAnswer string
	Choices       []string
	Commentary    string
	Tag           string
}

// AnswerRepository stores and reads answer rows. All reads are scoped by user.
type AnswerRepository interface {
	InsertAnswers(ctx context.Context, answers []AnswerRecord) error
	ListAttempts(ctx context.Context, userID int64) ([]AttemptSummary, error)
	GetAttemptDetails(ctx context.Context, userID int64, attemptID string) ([]AnswerDetail, error)
	DeleteAttempt(ctx context.Context, userID int64, attemptID string) (int64, error)
}

// QuestionRepository is the question store. GetQuestionByID returns (nil, nil)
// for an unknown id.
type QuestionRepository interface {
	GetQuestionByID(ctx context.Context, id int64) (*Question, error)
	CreateQuestion(ctx context.Context, q *Question) error
}
