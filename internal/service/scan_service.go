package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/dto"
	"github.com/noah-isme/campus-access-api/internal/models"
	"github.com/noah-isme/campus-access-api/internal/observability"
	"github.com/noah-isme/campus-access-api/internal/repository"
)

// ScanOutcome reports the result of a gate scan together with the message
// shown at the gate.
type ScanOutcome struct {
	Result    dto.ScanResultResponse
	Message   string
	Completed bool
}

// ScanService gates campus entry/exit on registration and presence state and
// appends every attempt to the scan log.
type ScanService interface {
	Scan(ctx context.Context, studentID uint, scanType models.ScanType) (ScanOutcome, error)
	// LogUnresolved appends a ledger row for an attempt that never reached the
	// gate decision, e.g. an unreadable code or a missing scan type.
	LogUnresolved(ctx context.Context, scanType models.ScanType) error
	List(ctx context.Context, filter repository.ScanFilter) (dto.ScanListResponse, error)
	ListByStudent(ctx context.Context, studentID uint) ([]dto.ScanResponse, error)
}

type scanService struct {
	scans    repository.ScanRepository
	students repository.StudentRepository
	classes  repository.ClassRepository
	logger   zerolog.Logger
	now      func() time.Time
}

// NewScanService builds a new scan service.
func NewScanService(scans repository.ScanRepository, students repository.StudentRepository, classes repository.ClassRepository, logger zerolog.Logger) ScanService {
	return &scanService{
		scans:    scans,
		students: students,
		classes:  classes,
		logger:   logger.With().Str("component", "scan_service").Logger(),
		now:      time.Now,
	}
}

func (s *scanService) Scan(ctx context.Context, studentID uint, scanType models.ScanType) (ScanOutcome, error) {
	if scanType != models.ScanTypeEntry && scanType != models.ScanTypeExit {
		if err := s.LogUnresolved(ctx, scanType); err != nil {
			return ScanOutcome{}, err
		}
		return ScanOutcome{}, validationError("scan type must be ENTRY or EXIT")
	}

	scannedAt := s.now()

	student, err := s.students.GetByID(ctx, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Unidentifiable student: the attempt is still logged, without a
		// student reference.
		if logErr := s.LogUnresolved(ctx, scanType); logErr != nil {
			return ScanOutcome{}, logErr
		}
		return ScanOutcome{}, ErrStudentNotFound
	}
	if err != nil {
		return ScanOutcome{}, err
	}

	status, campusStatus, message := decideScan(student, scanType)

	scan := models.Scan{
		Date:         scannedAt,
		Status:       status,
		ScanType:     scanType,
		CampusStatus: campusStatus,
		StudentID:    &student.ID,
	}
	if err := s.scans.Create(ctx, &scan); err != nil {
		return ScanOutcome{}, err
	}
	observability.Scans().WithLabelValues(string(scanType), string(status)).Inc()

	completed := status == models.ScanStatusCompleted
	if completed {
		if err := s.students.UpdateCampusStatus(ctx, student.ID, campusStatus, scannedAt); err != nil {
			return ScanOutcome{}, err
		}
		student.CampusStatus = campusStatus
		student.LastScanDate = &scannedAt
	}

	s.logger.Info().
		Uint("student_id", student.ID).
		Str("scan_type", string(scanType)).
		Str("status", string(status)).
		Msg("campus scan recorded")

	studentResponse := dto.NewStudentResponse(student)
	result := dto.ScanResultResponse{
		RegistrationStatus: student.Status,
		Scan:               dto.NewScanResponse(scan),
		Student:            &studentResponse,
	}
	if class, err := s.classes.GetByID(ctx, student.ClassID); err == nil {
		result.ClassName = class.Name
	}

	return ScanOutcome{Result: result, Message: message, Completed: completed}, nil
}

func (s *scanService) LogUnresolved(ctx context.Context, scanType models.ScanType) error {
	scan := models.Scan{
		Date:         s.now(),
		Status:       models.ScanStatusNotFound,
		ScanType:     scanType,
		CampusStatus: models.CampusStatusOutCampus,
	}
	if err := s.scans.Create(ctx, &scan); err != nil {
		return err
	}
	observability.Scans().WithLabelValues(string(scanType), string(models.ScanStatusNotFound)).Inc()

	s.logger.Warn().
		Str("scan_type", string(scanType)).
		Msg("unresolved scan attempt logged")
	return nil
}

func decideScan(student models.Student, scanType models.ScanType) (models.ScanStatus, models.CampusStatus, string) {
	if student.Status != models.RegistrationStatusRegistered {
		return models.ScanStatusFailed, student.CampusStatus, "Access Denied! Student is not registered."
	}

	switch scanType {
	case models.ScanTypeEntry:
		if student.CampusStatus == models.CampusStatusInCampus {
			return models.ScanStatusFailed, models.CampusStatusInCampus, "Access Denied! Student is already inside campus."
		}
		return models.ScanStatusCompleted, models.CampusStatusInCampus, "Access Granted! Student can now enter campus."
	default:
		if student.CampusStatus == models.CampusStatusOutCampus {
			return models.ScanStatusFailed, models.CampusStatusOutCampus, "Access Denied! Student is already outside campus."
		}
		return models.ScanStatusCompleted, models.CampusStatusOutCampus, "Access Granted! Student can now leave campus."
	}
}

func (s *scanService) List(ctx context.Context, filter repository.ScanFilter) (dto.ScanListResponse, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	scans, total, err := s.scans.List(ctx, filter)
	if err != nil {
		return dto.ScanListResponse{}, err
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return dto.ScanListResponse{
		Scans:       dto.NewScanResponseSlice(scans),
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: filter.Page,
	}, nil
}

func (s *scanService) ListByStudent(ctx context.Context, studentID uint) ([]dto.ScanResponse, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	scans, err := s.scans.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewScanResponseSlice(scans), nil
}
