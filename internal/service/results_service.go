package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/sahayak-edu/sahayak-api/internal/dto"
	"github.com/sahayak-edu/sahayak-api/internal/repository"
)

// ErrEvaluationNotFound indicates no completed evaluation exists for the pair.
var ErrEvaluationNotFound = errors.New("evaluation results not found")

// EvaluationResultsService serves stored evaluation records, with a Redis
// read cache in front of the data store.
type EvaluationResultsService interface {
	Get(ctx context.Context, submissionID, assignmentID string) (dto.EvaluationRecordResponse, error)
}

type evaluationResultsService struct {
	evaluations repository.EvaluationRepository
	redis       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewEvaluationResultsService constructs the results read service. A nil
// Redis client disables caching.
func NewEvaluationResultsService(evaluations repository.EvaluationRepository, redisClient *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) EvaluationResultsService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	return &evaluationResultsService{
		evaluations: evaluations,
		redis:       redisClient,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "evaluation_results_service").Logger(),
	}
}

func (s *evaluationResultsService) Get(ctx context.Context, submissionID, assignmentID string) (dto.EvaluationRecordResponse, error) {
	cacheKey := resultsCacheKey(submissionID, assignmentID)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.EvaluationRecordResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
			s.logger.Warn().Str("cache_key", cacheKey).Msg("discarding unreadable cached evaluation")
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("evaluation cache read failed")
		}
	}

	record, err := s.evaluations.Get(ctx, submissionID, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationRecordResponse{}, ErrEvaluationNotFound
		}
		return dto.EvaluationRecordResponse{}, fmt.Errorf("load evaluation record: %w", err)
	}

	response := dto.NewEvaluationRecordResponse(record)

	if s.redis != nil {
		if body, err := json.Marshal(response); err == nil {
			if err := s.redis.Set(ctx, cacheKey, body, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("evaluation cache write failed")
			}
		}
	}

	return response, nil
}

func resultsCacheKey(submissionID, assignmentID string) string {
	return fmt.Sprintf("evaluation:results:%s:%s", assignmentID, submissionID)
}
