package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-trail/internal/domain"
	"quiz-trail/internal/repository/models"
	"quiz-trail/internal/util"

	"github.com/jmoiron/sqlx"
)

const (
	insertSessionQuery        = `INSERT INTO sessions (id, user_id, token, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`
	getSessionByTokenQuery    = `SELECT id, user_id, token, created_at, expires_at FROM sessions WHERE token = ?`
	deleteSessionByTokenQuery = `DELETE FROM sessions WHERE token = ?`
	deleteExpiredSessionQuery = `DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= ?`
)

type sqlxSessionRepository struct {
	db *sqlx.DB
}

// NewSQLXSessionRepository creates a session store backed by the sessions table.
func NewSQLXSessionRepository(db *sqlx.DB) domain.SessionRepository {
	return &sqlxSessionRepository{db: db}
}

func (r *sqlxSessionRepository) CreateSession(ctx context.Context, session *domain.Session) error {
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, exec.Rebind(insertSessionQuery),
		session.ID,
		session.UserID,
		session.Token,
		session.CreatedAt,
		util.TimePtrToNullTime(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSessionByToken is a point read on the unique token index.
func (r *sqlxSessionRepository) GetSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	exec := GetExecutor(ctx, r.db)
	var row models.Session
	if err := exec.GetContext(ctx, &row, exec.Rebind(getSessionByTokenQuery), token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}
	return &domain.Session{
		ID:        row.ID,
		UserID:    row.UserID,
		Token:     row.Token,
		CreatedAt: row.CreatedAt.Time,
		ExpiresAt: row.ExpiresAt.Ptr(),
	}, nil
}

func (r *sqlxSessionRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, exec.Rebind(deleteSessionByTokenQuery), token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sqlxSessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, exec.Rebind(deleteExpiredSessionQuery), now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
