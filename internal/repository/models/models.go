package models

import (
	"database/sql"
	"time"
)

// Column tags are lower case. The Oracle connection maps them to upper case
// identifiers (see database.Open).

// User is a row of the users table.
type User struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    Timestamp `db:"created_at"`
}

// Session is a row of the sessions table.
type Session struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	Token     string    `db:"token"`
	CreatedAt Timestamp `db:"created_at"`
	ExpiresAt Timestamp `db:"expires_at"`
}

// Question is a row of the questions table.
type Question struct {
	ID            int64          `db:"id"`
	QuestionText  string         `db:"question_text"`
	CorrectAnswer string         `db:"correct_answer"`
	Choices       StringSlice    `db:"choices"`
	Commentary    sql.NullString `db:"commentary"`
	Tag           sql.NullString `db:"tag"`
}

// Answer is a row of the answers table. IsCorrect is 1, 0 or NULL.
type Answer struct {
	ID          string         `db:"id"`
	UserID      int64          `db:"user_id"`
	QuestionID  int64          `db:"question_id"`
	IsCorrect   sql.NullInt64  `db:"is_correct"`
	AttemptUUID string         `db:"attempt_uuid"`
	Ordinal     int64          `db:"ordinal"`
	AnsweredAt  time.Time      `db:"answered_at"`
	Commentary  sql.NullString `db:"commentary"`
}

// AttemptSummary is one row of the grouped history query.
type AttemptSummary struct {
	AttemptUUID   string    `db:"attempt_uuid"`
	SubmittedAt   Timestamp `db:"submitted_at"`
	QuestionCount int64     `db:"question_count"`
	CorrectCount  int64     `db:"correct_count"`
}

// AnswerDetail is one row of the answers-questions join.
type AnswerDetail struct {
	AnswerID      string         `db:"answer_id"`
	QuestionID    int64          `db:"question_id"`
	QuestionText  string         `db:"question_text"`
	CorrectAnswer string         `db:"correct_answer"`
	Choices       StringSlice    `db:"choices"`
	Commentary    sql.NullString `db:"commentary"`
	Tag           sql.NullString `db:"tag"`
	IsCorrect     sql.NullInt64  `db:"is_correct"`
	Ordinal       int64          `db:"ordinal"`
	AnsweredAt    Timestamp      `db:"answered_at"`
}
