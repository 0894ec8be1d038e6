package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"quiz-trail/cmd/seed/internal/seedmodels"
	"quiz-trail/internal/config"
	"quiz-trail/internal/database"
	"quiz-trail/internal/domain"
	"quiz-trail/internal/logger"
	"quiz-trail/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultSeedFilePath = "config/seed_data/initial_data.json"

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

type seeder struct {
	users     domain.UserRepository
	questions domain.QuestionRepository
	tx        domain.TransactionManager
	log       *zap.Logger
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	seedFilePath := defaultSeedFilePath
	if len(os.Args) > 1 {
		seedFilePath = os.Args[1]
	}

	log.Info("Starting initial data seeding process...")
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, cfg.DB.Driver); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	log.Info("Loading seed data from file", zap.String("path", seedFilePath))
	byteValue, err := os.ReadFile(seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", seedFilePath), zap.Error(err))
	}

	var seed seedmodels.SeedFile
	if err := json.Unmarshal(byteValue, &seed); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Successfully unmarshalled seed data",
		zap.Int("users_loaded", len(seed.Users)), zap.Int("questions_loaded", len(seed.Questions)))

	s := &seeder{
		users:     repository.NewSQLXUserRepository(db),
		questions: repository.NewSQLXQuestionRepository(db),
		tx:        repository.NewTransactionManagerAdapter(db),
		log:       log,
	}
	if err := s.seed(ctx, seed); err != nil {
		log.Fatal("Seeding failed, transaction rolled back", zap.Error(err))
	}
	log.Info("Initial data seeding process completed.")
}

// seed writes everything in one transaction. Rows that already exist are
// left untouched, so running the tool twice is harmless.
func (s *seeder) seed(ctx context.Context, seed seedmodels.SeedFile) error {
	return s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, su := range seed.Users {
			if err := s.seedUser(txCtx, su); err != nil {
				return err
			}
		}
		for _, sq := range seed.Questions {
			if err := s.seedQuestion(txCtx, sq); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *seeder) seedUser(ctx context.Context, su seedmodels.SeedUser) error {
	existing, err := s.users.GetUserByEmail(ctx, su.Email)
	if err != nil {
		return fmt.Errorf("error checking user %s: %w", su.Email, err)
	}
	if existing != nil {
		s.log.Info("User exists.", zap.Int64("id", existing.ID), zap.String("email", su.Email))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password for %s: %w", su.Email, err)
	}
	user := &domain.User{ID: su.ID, Name: su.Name, Email: su.Email, PasswordHash: string(hash)}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to save user %s: %w", su.Email, err)
	}
	s.log.Info("Created user.", zap.Int64("id", user.ID), zap.String("email", user.Email))
	return nil
}

func (s *seeder) seedQuestion(ctx context.Context, sq seedmodels.SeedQuestion) error {
	existing, err := s.questions.GetQuestionByID(ctx, sq.ID)
	if err != nil {
		return fmt.Errorf("error checking question %d: %w", sq.ID, err)
	}
	if existing != nil {
		s.log.Info("Question exists.", zap.Int64("id", sq.ID))
		return nil
	}

	q := &domain.Question{
		ID:            sq.ID,
		QuestionText:  sq.QuestionText,
		CorrectAnswer: sq.CorrectAnswer,
		Choices:       sq.Choices,
		Commentary:    sq.Commentary,
		Tag:           sq.Tag,
	}
	if err := s.questions.CreateQuestion(ctx, q); err != nil {
		return fmt.Errorf("failed to save question '%s': %w", firstN(sq.QuestionText, 50), err)
	}
	s.log.Info("Created question.", zap.Int64("id", q.ID), zap.String("tag", q.Tag),
		zap.String("question_preview", firstN(q.QuestionText, 20)))
	return nil
}
