package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// PaymentRepository defines persistence operations for the payment ledger.
type PaymentRepository interface {
	List(ctx context.Context) ([]models.Payment, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Payment, error)
	ListBySession(ctx context.Context, sessionID uint) ([]models.Payment, error)
	GetByID(ctx context.Context, id uint) (models.Payment, error)
	GetByStudentAndSession(ctx context.Context, studentID, sessionID uint) (models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	DeleteBySession(ctx context.Context, sessionID uint) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository instantiates a GORM-backed payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) List(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Preload("Session").
		Preload("Student").
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Preload("Session").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).
		Preload("Session").
		Preload("Student").
		First(&payment, id).Error; err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

func (r *paymentRepository) GetByStudentAndSession(ctx context.Context, studentID, sessionID uint) (models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		First(&payment).Error; err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) DeleteBySession(ctx context.Context, sessionID uint) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.Payment{}).Error
}
