package service

import (
	"context"
	"time"

	"quiz-trail/internal/domain"
	"quiz-trail/internal/logger"
	"quiz-trail/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AttemptService records submissions and serves a user's attempt history.
// Callers validate input shape before calling; userID always comes from a
// validated session.
type AttemptService interface {
	Submit(ctx context.Context, userID int64, items []domain.AttemptItem) (string, error)
	ListAttempts(ctx context.Context, userID int64) ([]domain.AttemptSummary, error)
	ExpandAttempt(ctx context.Context, userID int64, attemptID string) ([]domain.AnswerDetail, error)
	DeleteAttempt(ctx context.Context, userID int64, attemptID string) error
	GetQuestion(ctx context.Context, questionID int64) (*domain.Question, error)
}

type attemptServiceImpl struct {
	answerRepo   domain.AnswerRepository
	questionRepo domain.QuestionRepository
	txManager    domain.TransactionManager
	now          func() time.Time
	newAttemptID func() string
}

func NewAttemptService(answerRepo domain.AnswerRepository, questionRepo domain.QuestionRepository, txManager domain.TransactionManager) AttemptService {
	return &attemptServiceImpl{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		txManager:    txManager,
		now:          time.Now,
		newAttemptID: func() string { return uuid.New().String() },
	}
}

// Submit stores every item under one new attempt id. Either all rows are
// written or none are.
func (s *attemptServiceImpl) Submit(ctx context.Context, userID int64, items []domain.AttemptItem) (string, error) {
	if len(items) == 0 {
		return "", domain.ValidationErrors{domain.NewMissingFieldError("items")}
	}

	attemptID := s.newAttemptID()
	answeredAt := s.now().UTC()
	records := make([]domain.AnswerRecord, len(items))
	for i, item := range items {
		records[i] = domain.AnswerRecord{
			ID:         util.NewULID(),
			UserID:     userID,
			QuestionID: item.QuestionID,
			Result:     item.Result,
			AttemptID:  attemptID,
			Ordinal:    i,
			AnsweredAt: answeredAt,
			Commentary: item.Commentary,
		}
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.answerRepo.InsertAnswers(txCtx, records)
	})
	if err != nil {
		logger.Get().Error("Failed to record attempt",
			zap.Int64("userID", userID), zap.String("attemptID", attemptID), zap.Error(err))
		return "", domain.NewStorageError("failed to record attempt", err)
	}

	logger.Get().Info("Attempt recorded",
		zap.Int64("userID", userID), zap.String("attemptID", attemptID), zap.Int("items", len(records)))
	return attemptID, nil
}

func (s *attemptServiceImpl) ListAttempts(ctx context.Context, userID int64) ([]domain.AttemptSummary, error) {
	attempts, err := s.answerRepo.ListAttempts(ctx, userID)
	if err != nil {
		return nil, domain.NewStorageError("failed to list attempts", err)
	}
	return attempts, nil
}

// ExpandAttempt returns an empty slice for attempts that do not exist or
// belong to another user.
func (s *attemptServiceImpl) ExpandAttempt(ctx context.Context, userID int64, attemptID string) ([]domain.AnswerDetail, error) {
	details, err := s.answerRepo.GetAttemptDetails(ctx, userID, attemptID)
	if err != nil {
		return nil, domain.NewStorageError("failed to read attempt", err)
	}
	if details == nil {
		details = []domain.AnswerDetail{}
	}
	return details, nil
}

// DeleteAttempt succeeds even when nothing matched.
func (s *attemptServiceImpl) DeleteAttempt(ctx context.Context, userID int64, attemptID string) error {
	var deleted int64
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		n, err := s.answerRepo.DeleteAttempt(txCtx, userID, attemptID)
		deleted = n
		return err
	})
	if err != nil {
		return domain.NewStorageError("failed to delete attempt", err)
	}
	logger.Get().Info("Attempt deleted",
		zap.Int64("userID", userID), zap.String("attemptID", attemptID), zap.Int64("rows", deleted))
	return nil
}

func (s *attemptServiceImpl) GetQuestion(ctx context.Context, questionID int64) (*domain.Question, error) {
	q, err := s.questionRepo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, domain.NewStorageError("failed to read question", err)
	}
	if q == nil {
		return nil, domain.NewNotFoundError("question not found").WithContext("question_id", questionID)
	}
	return q, nil
}
