package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// SponsorRepository provides access to sponsor records.
type SponsorRepository interface {
	List(ctx context.Context) ([]models.Sponsor, error)
	GetByID(ctx context.Context, id uint) (models.Sponsor, error)
	GetByName(ctx context.Context, name string) (models.Sponsor, error)
	Create(ctx context.Context, sponsor *models.Sponsor) error
	Update(ctx context.Context, sponsor *models.Sponsor) error
	Delete(ctx context.Context, id uint) error
}

type sponsorRepository struct {
	db *gorm.DB
}

// NewSponsorRepository constructs a sponsor repository.
func NewSponsorRepository(db *gorm.DB) SponsorRepository {
	return &sponsorRepository{db: db}
}

func (r *sponsorRepository) List(ctx context.Context) ([]models.Sponsor, error) {
	var sponsors []models.Sponsor
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&sponsors).Error; err != nil {
		return nil, err
	}
	return sponsors, nil
}

func (r *sponsorRepository) GetByID(ctx context.Context, id uint) (models.Sponsor, error) {
	var sponsor models.Sponsor
	if err := r.db.WithContext(ctx).First(&sponsor, id).Error; err != nil {
		return models.Sponsor{}, err
	}
	return sponsor, nil
}

func (r *sponsorRepository) GetByName(ctx context.Context, name string) (models.Sponsor, error) {
	var sponsor models.Sponsor
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&sponsor).Error; err != nil {
		return models.Sponsor{}, err
	}
	return sponsor, nil
}

func (r *sponsorRepository) Create(ctx context.Context, sponsor *models.Sponsor) error {
	return r.db.WithContext(ctx).Create(sponsor).Error
}

func (r *sponsorRepository) Update(ctx context.Context, sponsor *models.Sponsor) error {
	return r.db.WithContext(ctx).Save(sponsor).Error
}

func (r *sponsorRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Sponsor{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
