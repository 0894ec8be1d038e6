package repository

import (
	"context"
	"database/sql"
	"fmt"

	"quiz-trail/internal/domain"
	"quiz-trail/internal/repository/models"
	"quiz-trail/internal/util"

	"github.com/jmoiron/sqlx"
)

const (
	insertAnswerQuery = `INSERT INTO answers (id, user_id, question_id, is_correct, attempt_uuid, ordinal, answered_at, commentary)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	// One row per attempt. answered_at is shared by every row of an attempt,
	// so MAX() is the submission time.
	listAttemptsQuery = `SELECT attempt_uuid,
	          MAX(answered_at) AS submitted_at,
	          COUNT(*) AS question_count,
	          SUM(CASE WHEN is_correct = 1 THEN 1 ELSE 0 END) AS correct_count
	          FROM answers
	          WHERE user_id = ?
	          GROUP BY attempt_uuid
	          ORDER BY submitted_at DESC, attempt_uuid`

	attemptDetailsQuery = `SELECT a.id AS answer_id, a.question_id, q.question_text, q.correct_answer, q.choices,
	          COALESCE(a.commentary, q.commentary) AS commentary, q.tag, a.is_correct, a.ordinal, a.answered_at
	          FROM answers a
	          JOIN questions q ON q.id = a.question_id
	          WHERE a.user_id = ? AND a.attempt_uuid = ?
	          ORDER BY a.ordinal, a.id`

	deleteAttemptQuery = `DELETE FROM answers WHERE user_id = ? AND attempt_uuid = ?`
)

type sqlxAnswerRepository struct {
	db *sqlx.DB
}

// NewSQLXAnswerRepository creates the answer store. InsertAnswers does not open
// its own transaction; callers wrap it in TransactionManager.WithTransaction.
func NewSQLXAnswerRepository(db *sqlx.DB) domain.AnswerRepository {
	return &sqlxAnswerRepository{db: db}
}

func correctnessToNullInt(c domain.Correctness) sql.NullInt64 {
	switch c {
	case domain.Correct:
		return sql.NullInt64{Int64: 1, Valid: true}
	case domain.Incorrect:
		return sql.NullInt64{Int64: 0, Valid: true}
	default:
		return sql.NullInt64{}
	}
}

func nullIntToCorrectness(n sql.NullInt64) domain.Correctness {
	if !n.Valid {
		return domain.Unanswered
	}
	if n.Int64 != 0 {
		return domain.Correct
	}
	return domain.Incorrect
}

func fromDomainAnswer(a *domain.AnswerRecord) *models.Answer {
	return &models.Answer{
		ID:          a.ID,
		UserID:      a.UserID,
		QuestionID:  a.QuestionID,
		IsCorrect:   correctnessToNullInt(a.Result),
		AttemptUUID: a.AttemptID,
		Ordinal:     int64(a.Ordinal),
		AnsweredAt:  a.AnsweredAt,
		Commentary:  util.StringToNullString(a.Commentary),
	}
}

func toDomainAnswerDetail(m *models.AnswerDetail) domain.AnswerDetail {
	choices := []string(m.Choices)
	if choices == nil {
		choices = []string{}
	}
	return domain.AnswerDetail{
		AnswerID:      m.AnswerID,
		QuestionID:    m.QuestionID,
		QuestionText:  m.QuestionText,
		CorrectAnswer: m.CorrectAnswer,
		Choices:       choices,
		Commentary:    m.Commentary.String,
		Tag:           m.Tag.String,
		Result:        nullIntToCorrectness(m.IsCorrect),
		Ordinal:       int(m.Ordinal),
		AnsweredAt:    m.AnsweredAt.Time,
	}
}

// InsertAnswers writes the rows one statement at a time on the executor
// carried by ctx.
func (r *sqlxAnswerRepository) InsertAnswers(ctx context.Context, answers []domain.AnswerRecord) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(insertAnswerQuery)
	for i := range answers {
		row := fromDomainAnswer(&answers[i])
		_, err := exec.ExecContext(ctx, query,
			row.ID,
			row.UserID,
			row.QuestionID,
			row.IsCorrect,
			row.AttemptUUID,
			row.Ordinal,
			row.AnsweredAt,
			row.Commentary,
		)
		if err != nil {
			return fmt.Errorf("failed to insert answer %d of attempt %s: %w", i, row.AttemptUUID, err)
		}
	}
	return nil
}

func (r *sqlxAnswerRepository) ListAttempts(ctx context.Context, userID int64) ([]domain.AttemptSummary, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.AttemptSummary
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(listAttemptsQuery), userID); err != nil {
		return nil, fmt.Errorf("failed to list attempts for user %d: %w", userID, err)
	}

	summaries := make([]domain.AttemptSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, domain.AttemptSummary{
			AttemptID:     row.AttemptUUID,
			SubmittedAt:   row.SubmittedAt.Time,
			QuestionCount: int(row.QuestionCount),
			CorrectCount:  int(row.CorrectCount),
		})
	}
	return summaries, nil
}

// GetAttemptDetails returns an empty slice when the attempt does not exist or
// belongs to another user.
func (r *sqlxAnswerRepository) GetAttemptDetails(ctx context.Context, userID int64, attemptID string) ([]domain.AnswerDetail, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.AnswerDetail
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(attemptDetailsQuery), userID, attemptID); err != nil {
		return nil, fmt.Errorf("failed to get attempt %s: %w", attemptID, err)
	}

	details := make([]domain.AnswerDetail, 0, len(rows))
	for i := range rows {
		details = append(details, toDomainAnswerDetail(&rows[i]))
	}
	return details, nil
}

func (r *sqlxAnswerRepository) DeleteAttempt(ctx context.Context, userID int64, attemptID string) (int64, error) {
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, exec.Rebind(deleteAttemptQuery), userID, attemptID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attempt %s: %w", attemptID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
