package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-trail/internal/domain"
	"quiz-trail/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const (
	getUserByEmailQuery = `SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`
	insertUserQuery     = `INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`
)

type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.Time,
	}
}

// GetUserByEmail returns nil, nil when no user has the address.
func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	var user models.User
	if err := exec.GetContext(ctx, &user, exec.Rebind(getUserByEmailQuery), email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toDomainUser(&user), nil
}

func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, exec.Rebind(insertUserQuery),
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
