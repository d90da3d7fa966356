package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/dto"
	"github.com/noah-isme/campus-access-api/internal/models"
	"github.com/noah-isme/campus-access-api/internal/repository"
)

// ClassService exposes class registry use cases.
type ClassService interface {
	List(ctx context.Context) ([]dto.ClassResponse, error)
	Get(ctx context.Context, id uint) (dto.ClassResponse, error)
	Create(ctx context.Context, payload dto.ClassCreateRequest) (dto.ClassResponse, error)
	Update(ctx context.Context, id uint, payload dto.ClassUpdateRequest) (dto.ClassResponse, error)
	Delete(ctx context.Context, id uint) error
}

type classService struct {
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewClassService builds a new class service.
func NewClassService(classes repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		classes:   classes,
		validator: validate,
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) List(ctx context.Context) ([]dto.ClassResponse, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewClassResponseSlice(classes), nil
}

func (s *classService) Get(ctx context.Context, id uint) (dto.ClassResponse, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(class), nil
}

func (s *classService) Create(ctx context.Context, payload dto.ClassCreateRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class := models.Class{
		Name:          payload.Name,
		ClassInitial:  payload.ClassInitial,
		DurationYears: payload.DurationYears,
		RequiredFee:   payload.RequiredFee,
	}
	if class.DurationYears == 0 {
		class.DurationYears = 3
	}
	if err := s.classes.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Str("name", class.Name).Msg("class created")
	return dto.NewClassResponse(class), nil
}

func (s *classService) Update(ctx context.Context, id uint, payload dto.ClassUpdateRequest) (dto.ClassResponse, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	if payload.Name != nil {
		class.Name = *payload.Name
	}
	if payload.ClassInitial != nil {
		class.ClassInitial = *payload.ClassInitial
	}
	if payload.DurationYears != nil {
		class.DurationYears = *payload.DurationYears
	}
	if payload.RequiredFee != nil {
		class.RequiredFee = *payload.RequiredFee
	}

	if err := s.classes.Update(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(class), nil
}

func (s *classService) Delete(ctx context.Context, id uint) error {
	if err := s.classes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return err
	}
	return nil
}
