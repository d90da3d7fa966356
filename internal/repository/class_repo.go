package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// ClassRepository provides access to academic class records.
type ClassRepository interface {
	List(ctx context.Context) ([]models.Class, error)
	GetByID(ctx context.Context, id uint) (models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id uint) error
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository constructs a class repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) List(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) GetByID(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).First(&class, id).Error; err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) Update(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Save(class).Error
}

func (r *classRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Class{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
