package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-access-api/internal/dto"
	"github.com/noah-isme/campus-access-api/internal/models"
	"github.com/noah-isme/campus-access-api/internal/repository"
)

const classStatsCacheKey = "stats:class_registration"

// StatsService produces aggregate registration statistics. Results are a
// cached projection; staleness is bounded by the configured TTL.
type StatsService interface {
	ClassRegistrationStats(ctx context.Context) (dto.ClassStatsResponse, error)
}

type statsService struct {
	classes  repository.ClassRepository
	students repository.StudentRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewStatsService builds the stats aggregator.
func NewStatsService(classes repository.ClassRepository, students repository.StudentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StatsService {
	return &statsService{
		classes:  classes,
		students: students,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "stats_service").Logger(),
	}
}

func (s *statsService) ClassRegistrationStats(ctx context.Context) (dto.ClassStatsResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, classStatsCacheKey).Result(); err == nil {
			var response dto.ClassStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("class stats cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read class stats cache")
		}
	}

	classes, err := s.classes.List(ctx)
	if err != nil {
		return dto.ClassStatsResponse{}, err
	}

	response := dto.ClassStatsResponse{
		Registered:    make(map[string]int64, len(classes)),
		Unregistered:  make(map[string]int64, len(classes)),
		ClassInitials: make([]string, 0, len(classes)),
	}
	for _, class := range classes {
		registered, err := s.students.CountByClassAndStatus(ctx, class.ID, models.RegistrationStatusRegistered)
		if err != nil {
			return dto.ClassStatsResponse{}, err
		}
		unregistered, err := s.students.CountByClassAndStatus(ctx, class.ID, models.RegistrationStatusNotRegistered)
		if err != nil {
			return dto.ClassStatsResponse{}, err
		}

		response.Registered[class.ClassInitial] = registered
		response.Unregistered[class.ClassInitial] = unregistered
		response.ClassInitials = append(response.ClassInitials, class.ClassInitial)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, classStatsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store class stats cache")
			}
		}
	}

	return response, nil
}
