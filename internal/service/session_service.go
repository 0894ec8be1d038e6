package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"quiz-trail/internal/cache"
	"quiz-trail/internal/config"
	"quiz-trail/internal/domain"
	"quiz-trail/internal/logger"
	"quiz-trail/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenBytes = 32

// SessionService issues, resolves and revokes bearer tokens.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
	// Validate resolves a token to its user. Unknown, empty and expired
	// tokens all yield a CodeUnauthenticated error.
	Validate(ctx context.Context, token string) (int64, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type sessionServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	cache       domain.Cache // optional
	cfg         config.SessionConfig
	now         func() time.Time
}

// NewSessionService creates the session service. cache may be nil.
func NewSessionService(userRepo domain.UserRepository, sessionRepo domain.SessionRepository, cache domain.Cache, cfg config.SessionConfig) SessionService {
	return &sessionServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cache:       cache,
		cfg:         cfg,
		now:         time.Now,
	}
}

func tokenCacheKey(token string) string {
	return cache.GenerateCacheKey("session", "token", cache.Digest(token))
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *sessionServiceImpl) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	l := logger.Get()

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		l.Error("Failed to look up user at login", zap.Error(err))
		return nil, domain.NewStorageError("failed to look up user", err)
	}
	if user == nil {
		return nil, domain.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.NewInvalidCredentialsError()
	}

	token, err := newToken()
	if err != nil {
		return nil, domain.NewInternalError("failed to generate session token", err)
	}

	now := s.now().UTC()
	session := &domain.Session{
		ID:        util.NewULID(),
		UserID:    user.ID,
		Token:     token,
		CreatedAt: now,
	}
	if s.cfg.TTL > 0 {
		expires := now.Add(s.cfg.TTL)
		session.ExpiresAt = &expires
	}

	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		l.Error("Failed to create session", zap.Int64("userID", user.ID), zap.Error(err))
		return nil, domain.NewStorageError("failed to create session", err)
	}

	l.Info("User logged in", zap.Int64("userID", user.ID), zap.String("sessionID", session.ID))
	return session, nil
}

func (s *sessionServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.NewSessionNotFoundError()
	}
	if err := s.sessionRepo.DeleteSessionByToken(ctx, token); err != nil {
		return domain.NewStorageError("failed to delete session", err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, tokenCacheKey(token)); err != nil {
			logger.Get().Warn("Failed to evict session from cache", zap.Error(err))
		}
	}
	return nil
}

func (s *sessionServiceImpl) Validate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, domain.NewSessionNotFoundError()
	}
	l := logger.Get()
	key := tokenCacheKey(token)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			if userID, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return userID, nil
			}
			l.Warn("Discarding malformed session cache entry", zap.String("key", key))
		case !errors.Is(err, domain.ErrCacheMiss):
			l.Warn("Session cache read failed", zap.Error(err))
		}
	}

	session, err := s.sessionRepo.GetSessionByToken(ctx, token)
	if err != nil {
		l.Error("Failed to look up session", zap.Error(err))
		return 0, domain.NewStorageError("failed to look up session", err)
	}
	now := s.now()
	if session == nil || session.Expired(now) {
		return 0, domain.NewSessionNotFoundError()
	}

	if s.cache != nil && s.cfg.CacheTTL > 0 {
		ttl := s.cfg.CacheTTL
		if session.ExpiresAt != nil {
			if left := session.ExpiresAt.Sub(now); left < ttl {
				ttl = left
			}
		}
		if err := s.cache.Set(ctx, key, strconv.FormatInt(session.UserID, 10), ttl); err != nil {
			l.Warn("Session cache write failed", zap.Error(err))
		}
	}
	return session.UserID, nil
}

func (s *sessionServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessionRepo.DeleteExpiredSessions(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	if n > 0 {
		logger.Get().Info("Purged expired sessions", zap.Int64("count", n))
	}
	return n, nil
}
