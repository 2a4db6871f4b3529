package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sahayak-edu/sahayak-api/internal/config"
	"github.com/sahayak-edu/sahayak-api/internal/database"
	"github.com/sahayak-edu/sahayak-api/internal/grading"
	"github.com/sahayak-edu/sahayak-api/internal/handler"
	"github.com/sahayak-edu/sahayak-api/internal/middleware"
	"github.com/sahayak-edu/sahayak-api/internal/models"
	"github.com/sahayak-edu/sahayak-api/internal/repository"
	"github.com/sahayak-edu/sahayak-api/internal/router"
	"github.com/sahayak-edu/sahayak-api/internal/service"
	"github.com/sahayak-edu/sahayak-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Assignment{}, &models.Submission{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var notifier service.NotificationDispatcher
	if cfg.NATSURL != "" {
		natsConn, err := database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
		notifier = service.NewNATSNotificationDispatcher(natsConn, cfg.NotificationSubject, logger)
	}

	var evaluator service.AnswerEvaluator
	if cfg.OpenAIAPIKey != "" {
		generator, err := ai.NewOpenAIGenerator(ai.OpenAIConfig{APIKey: cfg.OpenAIAPIKey, Logger: logger})
		if err != nil {
			log.Fatalf("failed to create text generator: %v", err)
		}
		evaluator, err = ai.NewEvaluator(generator, ai.EvaluatorConfig{
			Models:      cfg.AIModels,
			MaxTokens:   cfg.AIMaxTokens,
			Temperature: cfg.AITemperature,
			Logger:      logger,
		})
		if err != nil {
			log.Fatalf("failed to create ai evaluator: %v", err)
		}
	} else {
		logger.Warn().Msg("no openai api key configured, evaluations run on deterministic matching only")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	matcher := grading.NewMatcher(cfg.Matcher)

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	evaluationService := service.NewEvaluationService(submissionRepo, assignmentRepo, evaluationRepo, evaluator, matcher, notifier, logger)
	dispatcher := service.NewAsyncEvaluationDispatcher(evaluationService, cfg.DispatchTimeout, logger)
	batchService := service.NewBatchEvaluationService(submissionRepo, assignmentRepo, dispatcher, logger)
	resultsService := service.NewEvaluationResultsService(evaluationRepo, redisClient, cfg.ResultsCacheTTL, logger)
	answerKeyService := service.NewAnswerKeyService(assignmentRepo, logger)

	evaluationHandler := handler.NewEvaluationHandler(evaluationService, batchService, resultsService, validate, logger)
	answerKeyHandler := handler.NewAnswerKeyHandler(answerKeyService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		EvaluationHandler: evaluationHandler,
		AnswerKeyHandler:  answerKeyHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
