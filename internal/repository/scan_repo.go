package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// ScanFilter describes pagination options for the scan log.
type ScanFilter struct {
	Page     int
	PageSize int
}

// ScanRepository persists the append-only campus scan log.
type ScanRepository interface {
	Create(ctx context.Context, scan *models.Scan) error
	List(ctx context.Context, filter ScanFilter) ([]models.Scan, int64, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Scan, error)
}

type scanRepository struct {
	db *gorm.DB
}

// NewScanRepository constructs a scan repository.
func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) Create(ctx context.Context, scan *models.Scan) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *scanRepository) List(ctx context.Context, filter ScanFilter) ([]models.Scan, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Scan{})

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

	var scans []models.Scan
	if err := query.Order("date DESC").Find(&scans).Error; err != nil {
		return nil, 0, err
	}
	return scans, total, nil
}

func (r *scanRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Scan, error) {
	var scans []models.Scan
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date DESC").
		Find(&scans).Error; err != nil {
		return nil, err
	}
	return scans, nil
}
