package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// StudentFilter describes pagination & search options for student listings.
type StudentFilter struct {
	Name     string
	RegNo    string
	Page     int
	PageSize int
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error)
	ListAll(ctx context.Context) ([]models.Student, error)
	ListBySession(ctx context.Context, sessionID uint) ([]models.Student, error)
	ListBySponsor(ctx context.Context, sponsorID uint) ([]models.Student, error)
	ListByStatus(ctx context.Context, status models.RegistrationStatus) ([]models.Student, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetDetailed(ctx context.Context, id uint) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uint) error
	// BulkSetStatus flips the cached registration status (and the session
	// reference) for every listed student in one statement.
	BulkSetStatus(ctx context.Context, ids []uint, status models.RegistrationStatus, sessionID uint) error
	ReassignSponsor(ctx context.Context, fromSponsorID, toSponsorID uint) (int64, error)
	UpdateCampusStatus(ctx context.Context, id uint, status models.CampusStatus, scannedAt time.Time) error
	CountByClassAndStatus(ctx context.Context, classID uint, status models.RegistrationStatus) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.Name != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Name)) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(second_name) LIKE ? OR LOWER(last_name) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.RegNo != "" {
		query = query.Where("reg_no = ?", strings.TrimSpace(filter.RegNo))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var students []models.Student
	if err := query.Order("student_number ASC").Find(&students).Error; err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (r *studentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) ListBySponsor(ctx context.Context, sponsorID uint) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).Where("sponsor_id = ?", sponsorID).Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) ListByStatus(ctx context.Context, status models.RegistrationStatus) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).Where("status = ?", status).Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) GetDetailed(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Sponsor").
		Preload("Session").
		First(&student, id).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Student{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepository) BulkSetStatus(ctx context.Context, ids []uint, status models.RegistrationStatus, sessionID uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     status,
			"session_id": sessionID,
		}).Error
}

func (r *studentRepository) ReassignSponsor(ctx context.Context, fromSponsorID, toSponsorID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("sponsor_id = ?", fromSponsorID).
		Update("sponsor_id", toSponsorID)
	return result.RowsAffected, result.Error
}

func (r *studentRepository) UpdateCampusStatus(ctx context.Context, id uint, status models.CampusStatus, scannedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"campus_status":  status,
			"last_scan_date": scannedAt,
		}).Error
}

func (r *studentRepository) CountByClassAndStatus(ctx context.Context, classID uint, status models.RegistrationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("class_id = ? AND status = ?", classID, status).
		Count(&count).Error
	return count, err
}
