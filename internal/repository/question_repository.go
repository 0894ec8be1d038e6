package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quiz-trail/internal/domain"
	"quiz-trail/internal/repository/models"
	"quiz-trail/internal/util"

	"github.com/jmoiron/sqlx"
)

const (
	getQuestionByIDQuery = `SELECT id, question_text, correct_answer, choices, commentary, tag FROM questions WHERE id = ?`
	insertQuestionQuery  = `INSERT INTO questions (id, question_text, correct_answer, choices, commentary, tag) VALUES (?, ?, ?, ?, ?, ?)`
)

type sqlxQuestionRepository struct {
	db *sqlx.DB
}

func NewSQLXQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:            m.ID,
		QuestionText:  m.QuestionText,
		CorrectAnswer: m.CorrectAnswer,
		Choices:       []string(m.Choices),
		Commentary:    m.Commentary.String,
		Tag:           m.Tag.String,
	}
}

func (r *sqlxQuestionRepository) GetQuestionByID(ctx context.Context, id int64) (*domain.Question, error) {
	exec := GetExecutor(ctx, r.db)
	var row models.Question
	if err := exec.GetContext(ctx, &row, exec.Rebind(getQuestionByIDQuery), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question %d: %w", id, err)
	}
	return toDomainQuestion(&row), nil
}

func (r *sqlxQuestionRepository) CreateQuestion(ctx context.Context, q *domain.Question) error {
	// Choices are written as their JSON text so the driver never sees the custom type.
	choices, err := models.StringSlice(q.Choices).Value()
	if err != nil {
		return fmt.Errorf("failed to encode choices: %w", err)
	}
	exec := GetExecutor(ctx, r.db)
	_, err = exec.ExecContext(ctx, exec.Rebind(insertQuestionQuery),
		q.ID,
		q.QuestionText,
		q.CorrectAnswer,
		choices,
		util.StringToNullString(q.Commentary),
		util.StringToNullString(q.Tag),
	)
	if err != nil {
		return fmt.Errorf("failed to create question %d: %w", q.ID, err)
	}
	return nil
}
