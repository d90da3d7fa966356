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

// ErrPaymentNotFound indicates the requested payment does not exist.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentService exposes ledger use cases.
type PaymentService interface {
	Record(ctx context.Context, payload dto.PaymentRecordRequest) (dto.PaymentResponse, error)
	List(ctx context.Context) ([]dto.PaymentResponse, error)
	Get(ctx context.Context, id uint) (dto.PaymentResponse, error)
	ListByStudent(ctx context.Context, studentID uint) ([]dto.PaymentResponse, error)
	ListBySession(ctx context.Context, sessionID uint) ([]dto.PaymentResponse, error)
}

type paymentService struct {
	payments  repository.PaymentRepository
	uow       repository.UnitOfWork
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPaymentService builds a new payment service.
func NewPaymentService(payments repository.PaymentRepository, uow repository.UnitOfWork, validate *validator.Validate, logger zerolog.Logger) PaymentService {
	return &paymentService{
		payments:  payments,
		uow:       uow,
		validator: validate,
		logger:    logger.With().Str("component", "payment_service").Logger(),
		now:       time.Now,
	}
}

// Record adds an installment to the student's ledger record for the active
// session and re-evaluates their registration status in the same transaction.
func (s *paymentService) Record(ctx context.Context, payload dto.PaymentRecordRequest) (dto.PaymentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PaymentResponse{}, err
	}

	var payment models.Payment
	err := s.uow.Do(ctx, func(tx repository.RepoSet) error {
		student, err := tx.Students.GetByID(ctx, payload.StudentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		session, err := tx.Sessions.GetActive(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveSession
			}
			return err
		}

		sponsor, err := tx.Sponsors.GetByID(ctx, student.SponsorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSponsorNotFound
			}
			return err
		}

		payment, err = tx.Payments.GetByStudentAndSession(ctx, student.ID, session.ID)
		created := false
		if errors.Is(err, gorm.ErrRecordNotFound) {
			payment = models.Payment{SessionID: session.ID, StudentID: student.ID}
			created = true
		} else if err != nil {
			return err
		}
		payment.Amount += payload.Amount

		outcome := registration.Evaluate(registration.Input{
			FundingSponsor: registration.IsFundingSponsor(sponsor.Name),
			Grace:          session.Grace && !session.GraceExpired(s.now()),
			SessionAmount:  session.Amount,
			PaidAmount:     payment.Amount,
		})
		payment.PaymentStatus = outcome.PaymentStatus
		payment.RemainingAmount = outcome.RemainingAmount

		if created {
			if err := tx.Payments.Create(ctx, &payment); err != nil {
				return err
			}
		} else if err := tx.Payments.Update(ctx, &payment); err != nil {
			return err
		}

		if student.Status != outcome.Status || student.SessionID != session.ID {
			student.Status = outcome.Status
			student.SessionID = session.ID
			if err := tx.Students.Update(ctx, &student); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	s.logger.Info().
		Uint("payment_id", payment.ID).
		Uint("student_id", payment.StudentID).
		Int64("amount", payment.Amount).
		Str("payment_status", string(payment.PaymentStatus)).
		Msg("payment recorded")

	return dto.NewPaymentResponse(payment), nil
}

func (s *paymentService) List(ctx context.Context) ([]dto.PaymentResponse, error) {
	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponseSlice(payments), nil
}

func (s *paymentService) Get(ctx context.Context, id uint) (dto.PaymentResponse, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentResponse{}, ErrPaymentNotFound
		}
		return dto.PaymentResponse{}, err
	}
	return dto.NewPaymentResponse(payment), nil
}

func (s *paymentService) ListByStudent(ctx context.Context, studentID uint) ([]dto.PaymentResponse, error) {
	payments, err := s.payments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponseSlice(payments), nil
}

func (s *paymentService) ListBySession(ctx context.Context, sessionID uint) ([]dto.PaymentResponse, error) {
	payments, err := s.payments.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponseSlice(payments), nil
}
