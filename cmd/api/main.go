// @title Quiz Trail API
// @version 1.0
// @description Records quiz attempts, serves attempt history and composes per-topic feedback.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_SESSION_TOKEN' to authorize.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quiz-trail/cmd/api/docs"
	"quiz-trail/internal/adapter"
	"quiz-trail/internal/adapter/completion"
	"quiz-trail/internal/cache"
	"quiz-trail/internal/config"
	"quiz-trail/internal/database"
	"quiz-trail/internal/domain"
	"quiz-trail/internal/handler"
	"quiz-trail/internal/logger"
	"quiz-trail/internal/repository"
	"quiz-trail/internal/server"
	"quiz-trail/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Redis is optional: sessions fall back to the database and feedback
	// completions are not cached.
	var cacheAdapter domain.Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Continuing without Redis", zap.Error(err))
	} else {
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	}

	completer, err := completion.New(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create text completer", zap.Error(err))
	}
	namespace := fmt.Sprintf("%s:%s", cfg.LLM.Provider, cfg.LLM.Model)
	completer = completion.NewCachingCompleter(completer, cacheAdapter, cfg.Feedback.CacheTTL, namespace, cfg.LLM.Timeout)
	appLogger.Info("Text completer initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	userRepository := repository.NewSQLXUserRepository(db)
	sessionRepository := repository.NewSQLXSessionRepository(db)
	questionRepository := repository.NewSQLXQuestionRepository(db)
	answerRepository := repository.NewSQLXAnswerRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	sessionService := service.NewSessionService(userRepository, sessionRepository, cacheAdapter, cfg.Session)
	attemptService := service.NewAttemptService(answerRepository, questionRepository, txManager)
	feedbackService := service.NewFeedbackService(completer, cfg.Feedback, cfg.LLM.Timeout)

	app := server.New(cfg.Server, server.Deps{
		Sessions: sessionService,
		Attempts: attemptService,
		Feedback: feedbackService,
		Health:   handler.NewHealthHandler(db, cacheAdapter),
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if cfg.Session.TTL > 0 && cfg.Session.PurgeInterval > 0 {
		go purgeExpiredSessions(ctx, sessionService, cfg.Session.PurgeInterval)
	}

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("db_driver", cfg.DB.Driver))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

func purgeExpiredSessions(ctx context.Context, sessions service.SessionService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sessions.PurgeExpired(ctx); err != nil {
				logger.Get().Warn("Session purge failed", zap.Error(err))
			}
		}
	}
}
