package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/dto"
	"github.com/noah-isme/campus-access-api/internal/models"
	"github.com/noah-isme/campus-access-api/internal/registration"
	"github.com/noah-isme/campus-access-api/internal/repository"
)

// ErrPrivateSponsorMissing indicates the fallback "Private" sponsor is absent
// so sponsor deletion cannot reassign its students.
var ErrPrivateSponsorMissing = errors.New("private sponsor not found")

// SponsorService exposes sponsor registry use cases.
type SponsorService interface {
	List(ctx context.Context) ([]dto.SponsorResponse, error)
	Get(ctx context.Context, id uint) (dto.SponsorResponse, error)
	Create(ctx context.Context, payload dto.SponsorCreateRequest) (dto.SponsorResponse, error)
	Rename(ctx context.Context, id uint, payload dto.SponsorUpdateRequest) (dto.SponsorResponse, error)
	Delete(ctx context.Context, id uint) (dto.SponsorDeleteResponse, error)
}

type sponsorService struct {
	sponsors  repository.SponsorRepository
	uow       repository.UnitOfWork
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSponsorService builds a new sponsor service.
func NewSponsorService(sponsors repository.SponsorRepository, uow repository.UnitOfWork, validate *validator.Validate, logger zerolog.Logger) SponsorService {
	return &sponsorService{
		sponsors:  sponsors,
		uow:       uow,
		validator: validate,
		logger:    logger.With().Str("component", "sponsor_service").Logger(),
		now:       time.Now,
	}
}

func (s *sponsorService) List(ctx context.Context) ([]dto.SponsorResponse, error) {
	sponsors, err := s.sponsors.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewSponsorResponseSlice(sponsors), nil
}

func (s *sponsorService) Get(ctx context.Context, id uint) (dto.SponsorResponse, error) {
	sponsor, err := s.sponsors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SponsorResponse{}, ErrSponsorNotFound
		}
		return dto.SponsorResponse{}, err
	}
	return dto.NewSponsorResponse(sponsor), nil
}

func (s *sponsorService) Create(ctx context.Context, payload dto.SponsorCreateRequest) (dto.SponsorResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SponsorResponse{}, err
	}

	sponsor := models.Sponsor{Name: payload.Name}
	if err := s.sponsors.Create(ctx, &sponsor); err != nil {
		return dto.SponsorResponse{}, err
	}

	s.logger.Info().Uint("sponsor_id", sponsor.ID).Str("name", sponsor.Name).Msg("sponsor created")
	return dto.NewSponsorResponse(sponsor), nil
}

func (s *sponsorService) Rename(ctx context.Context, id uint, payload dto.SponsorUpdateRequest) (dto.SponsorResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SponsorResponse{}, err
	}

	sponsor, err := s.sponsors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SponsorResponse{}, ErrSponsorNotFound
		}
		return dto.SponsorResponse{}, err
	}

	sponsor.Name = payload.Name
	if err := s.sponsors.Update(ctx, &sponsor); err != nil {
		return dto.SponsorResponse{}, err
	}
	return dto.NewSponsorResponse(sponsor), nil
}

// Delete removes a sponsor after moving its students to the "Private"
// fallback sponsor.
func (s *sponsorService) Delete(ctx context.Context, id uint) (dto.SponsorDeleteResponse, error) {
	sponsor, err := s.sponsors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SponsorDeleteResponse{}, ErrSponsorNotFound
		}
		return dto.SponsorDeleteResponse{}, err
	}
	if sponsor.Name == models.PrivateSponsorName {
		return dto.SponsorDeleteResponse{}, validationError("the Private sponsor cannot be deleted")
	}

	fallback, err := s.sponsors.GetByName(ctx, models.PrivateSponsorName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SponsorDeleteResponse{}, ErrPrivateSponsorMissing
		}
		return dto.SponsorDeleteResponse{}, err
	}

	var reassigned int64
	err = s.uow.Do(ctx, func(tx repository.RepoSet) error {
		students, err := tx.Students.ListBySponsor(ctx, sponsor.ID)
		if err != nil {
			return err
		}
		reassigned, err = tx.Students.ReassignSponsor(ctx, sponsor.ID, fallback.ID)
		if err != nil {
			return err
		}
		if err := tx.Sponsors.Delete(ctx, sponsor.ID); err != nil {
			return err
		}
		return s.reevaluate(ctx, tx, students, fallback)
	})
	if err != nil {
		return dto.SponsorDeleteResponse{}, err
	}

	s.logger.Info().
		Uint("sponsor_id", sponsor.ID).
		Int64("students_reassigned", reassigned).
		Msg("sponsor deleted")

	return dto.SponsorDeleteResponse{
		Sponsor:         dto.NewSponsorResponse(sponsor),
		StudentsUpdated: reassigned,
		FallbackSponsor: fallback.Name,
	}, nil
}

// reevaluate recomputes each reassigned student's registration status against
// the active session. The sponsor is an input to the rule, so losing a funding
// sponsor must surface immediately rather than waiting for the next trigger.
func (s *sponsorService) reevaluate(ctx context.Context, tx repository.RepoSet, students []models.Student, sponsor models.Sponsor) error {
	session, err := tx.Sessions.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	funding := registration.IsFundingSponsor(sponsor.Name)
	grace := session.Grace && !session.GraceExpired(s.now())

	for _, student := range students {
		var paid int64
		payment, err := tx.Payments.GetByStudentAndSession(ctx, student.ID, session.ID)
		switch {
		case err == nil:
			paid = payment.Amount
		case errors.Is(err, gorm.ErrRecordNotFound):
			payment = models.Payment{SessionID: session.ID, StudentID: student.ID}
		default:
			return err
		}

		outcome := registration.Evaluate(registration.Input{
			FundingSponsor: funding,
			Grace:          grace,
			SessionAmount:  session.Amount,
			PaidAmount:     paid,
		})

		payment.PaymentStatus = outcome.PaymentStatus
		payment.RemainingAmount = outcome.RemainingAmount
		if payment.ID == 0 {
			payment.Amount = registration.SeedAmount(funding, session.Amount)
			if err := tx.Payments.Create(ctx, &payment); err != nil {
				return err
			}
		} else if err := tx.Payments.Update(ctx, &payment); err != nil {
			return err
		}

		if student.Status != outcome.Status || student.SessionID != session.ID {
			student.SponsorID = sponsor.ID
			student.Status = outcome.Status
			student.SessionID = session.ID
			if err := tx.Students.Update(ctx, &student); err != nil {
				return err
			}
		}
	}
	return nil
}
