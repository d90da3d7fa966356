package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// ErrVersionConflict indicates a guarded session update lost a concurrent
// race; the caller saw a stale version token.
var ErrVersionConflict = errors.New("session version conflict")

// SessionRepository defines persistence operations for payment sessions.
type SessionRepository interface {
	List(ctx context.Context) ([]models.Session, error)
	GetByID(ctx context.Context, id uint) (models.Session, error)
	GetActive(ctx context.Context) (models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
	// UpdateGuarded persists the session only if its Version column still
	// matches expectedVersion, bumping the version on success.
	UpdateGuarded(ctx context.Context, session *models.Session, expectedVersion uint) error
	DeactivateOthers(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository instantiates a GORM-backed session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) List(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id uint) (models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (r *sessionRepository) GetActive(ctx context.Context) (models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).Where("active_status = ?", true).First(&session).Error; err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) Update(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) UpdateGuarded(ctx context.Context, session *models.Session, expectedVersion uint) error {
	session.Version = expectedVersion + 1
	result := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND version = ?", session.ID, expectedVersion).
		Updates(map[string]interface{}{
			"session_name":          session.SessionName,
			"start_date":            session.StartDate,
			"end_date":              session.EndDate,
			"amount":                session.Amount,
			"active_status":         session.ActiveStatus,
			"grace":                 session.Grace,
			"grace_period_days":     session.GracePeriodDays,
			"grace_activation_date": session.GraceActivationDate,
			"version":               session.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *sessionRepository) DeactivateOthers(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id <> ?", id).
		Update("active_status", false).Error
}

func (r *sessionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Session{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
