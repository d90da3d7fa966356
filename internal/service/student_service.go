package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/dto"
	"github.com/noah-isme/campus-access-api/internal/models"
	"github.com/noah-isme/campus-access-api/internal/registration"
	"github.com/noah-isme/campus-access-api/internal/repository"
)

var (
	// ErrStudentNotFound indicates the requested student does not exist.
	ErrStudentNotFound = errors.New("student not found")
	// ErrClassNotFound indicates the referenced class does not exist.
	ErrClassNotFound = errors.New("class not found")
	// ErrSponsorNotFound indicates the referenced sponsor does not exist.
	ErrSponsorNotFound = errors.New("sponsor not found")
	// ErrNoActiveSession indicates no session is currently active.
	ErrNoActiveSession = errors.New("no active session found")
)

// StudentService exposes student registry use cases.
type StudentService interface {
	List(ctx context.Context, filter repository.StudentFilter) (dto.StudentListResponse, error)
	ListRegistered(ctx context.Context) ([]dto.StudentResponse, error)
	Get(ctx context.Context, id uint) (dto.StudentResponse, error)
	Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	UpdateSponsor(ctx context.Context, payload dto.StudentSponsorUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type studentService struct {
	students  repository.StudentRepository
	classes   repository.ClassRepository
	sponsors  repository.SponsorRepository
	sessions  repository.SessionRepository
	uow       repository.UnitOfWork
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStudentService builds a new student service.
func NewStudentService(
	students repository.StudentRepository,
	classes repository.ClassRepository,
	sponsors repository.SponsorRepository,
	sessions repository.SessionRepository,
	uow repository.UnitOfWork,
	validate *validator.Validate,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		students:  students,
		classes:   classes,
		sponsors:  sponsors,
		sessions:  sessions,
		uow:       uow,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
		now:       time.Now,
	}
}

func (s *studentService) List(ctx context.Context, filter repository.StudentFilter) (dto.StudentListResponse, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return dto.StudentListResponse{}, err
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return dto.StudentListResponse{
		Students:    dto.NewStudentResponseSlice(students),
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: filter.Page,
	}, nil
}

func (s *studentService) ListRegistered(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.students.ListByStatus(ctx, models.RegistrationStatusRegistered)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) Get(ctx context.Context, id uint) (dto.StudentResponse, error) {
	student, err := s.students.GetDetailed(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	var student models.Student
	err := s.uow.Do(ctx, func(tx repository.RepoSet) error {
		session, err := tx.Sessions.GetActive(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveSession
			}
			return err
		}

		selectedClass, err := s.classes.GetByID(ctx, payload.ClassID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClassNotFound
			}
			return err
		}

		sponsor, err := tx.Sponsors.GetByID(ctx, payload.SponsorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSponsorNotFound
			}
			return err
		}

		number, err := tx.Counters.Next(ctx, models.CounterStudentNumber)
		if err != nil {
			return err
		}

		funding := registration.IsFundingSponsor(sponsor.Name)
		seed := registration.SeedAmount(funding, session.Amount)
		outcome := registration.Evaluate(registration.Input{
			FundingSponsor: funding,
			Grace:          session.Grace && !session.GraceExpired(s.now()),
			SessionAmount:  session.Amount,
			PaidAmount:     seed,
		})

		student = models.Student{
			StudentNumber:  number,
			FirstName:      payload.FirstName,
			SecondName:     payload.SecondName,
			LastName:       payload.LastName,
			Email:          payload.Email,
			PhoneNumber:    payload.PhoneNumber,
			Nationality:    payload.Nationality,
			Gender:         payload.Gender,
			RegNo:          formatRegNo(selectedClass.ClassInitial, payload.EnrollmentYear, number),
			ClassID:        selectedClass.ID,
			SponsorID:      sponsor.ID,
			SessionID:      session.ID,
			Status:         outcome.Status,
			CampusStatus:   models.CampusStatusOutCampus,
			EnrollmentYear: payload.EnrollmentYear,
		}
		if err := tx.Students.Create(ctx, &student); err != nil {
			return err
		}

		payment := models.Payment{
			Amount:          seed,
			SessionID:       session.ID,
			StudentID:       student.ID,
			PaymentStatus:   outcome.PaymentStatus,
			RemainingAmount: outcome.RemainingAmount,
		}
		return tx.Payments.Create(ctx, &payment)
	})
	if err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().
		Uint("student_id", student.ID).
		Str("reg_no", student.RegNo).
		Str("status", string(student.Status)).
		Msg("student created")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if payload.FirstName != nil {
		student.FirstName = *payload.FirstName
	}
	if payload.SecondName != nil {
		student.SecondName = *payload.SecondName
	}
	if payload.LastName != nil {
		student.LastName = *payload.LastName
	}
	if payload.Email != nil {
		student.Email = *payload.Email
	}
	if payload.PhoneNumber != nil {
		student.PhoneNumber = *payload.PhoneNumber
	}
	if payload.Nationality != nil {
		student.Nationality = *payload.Nationality
	}
	if payload.Gender != nil {
		student.Gender = *payload.Gender
	}
	if payload.ClassID != nil {
		if _, err := s.classes.GetByID(ctx, *payload.ClassID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.StudentResponse{}, ErrClassNotFound
			}
			return dto.StudentResponse{}, err
		}
		student.ClassID = *payload.ClassID
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

// UpdateSponsor swaps a student's sponsor and immediately re-evaluates their
// registration status, since the sponsor is an input to the rule.
func (s *studentService) UpdateSponsor(ctx context.Context, payload dto.StudentSponsorUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	var student models.Student
	err := s.uow.Do(ctx, func(tx repository.RepoSet) error {
		var err error
		student, err = tx.Students.GetByID(ctx, payload.StudentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		sponsor, err := tx.Sponsors.GetByID(ctx, payload.SponsorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSponsorNotFound
			}
			return err
		}
		student.SponsorID = sponsor.ID

		session, err := tx.Sessions.GetActive(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No active session: nothing to reconcile against.
				return tx.Students.Update(ctx, &student)
			}
			return err
		}

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

		funding := registration.IsFundingSponsor(sponsor.Name)
		outcome := registration.Evaluate(registration.Input{
			FundingSponsor: funding,
			Grace:          session.Grace && !session.GraceExpired(s.now()),
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

		student.Status = outcome.Status
		student.SessionID = session.ID
		return tx.Students.Update(ctx, &student)
	})
	if err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().
		Uint("student_id", student.ID).
		Uint("sponsor_id", student.SponsorID).
		Str("status", string(student.Status)).
		Msg("student sponsor updated")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	return nil
}

func formatRegNo(classInitial string, enrollmentYear int, studentNumber int64) string {
	return fmt.Sprintf("%s/%02d/%d", classInitial, enrollmentYear%100, studentNumber)
}
