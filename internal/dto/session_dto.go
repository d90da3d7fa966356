package dto

import (
	"time"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// SessionCreateRequest carries the payload for creating a payment session.
// Dates accept RFC3339 or plain YYYY-MM-DD.
type SessionCreateRequest struct {
	SessionName     string `json:"session_name" validate:"required"`
	StartDate       string `json:"start_date" validate:"required"`
	EndDate         string `json:"end_date" validate:"required"`
	Amount          int64  `json:"amount" validate:"required,gt=0"`
	ActiveStatus    bool   `json:"active_status"`
	GracePeriodDays int    `json:"grace_period_days" validate:"gte=0"`
}

// SessionUpdateRequest carries optional mutations for a session. Nil fields
// are left untouched.
type SessionUpdateRequest struct {
	SessionName     *string `json:"session_name"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	Amount          *int64  `json:"amount"`
	ActiveStatus    *bool   `json:"active_status"`
	Grace           *bool   `json:"grace"`
	GracePeriodDays *int    `json:"grace_period_days"`
}

// SessionResponse is the API shape of a payment session.
type SessionResponse struct {
	ID                  uint       `json:"id"`
	SessionName         string     `json:"session_name"`
	StartDate           time.Time  `json:"start_date"`
	EndDate             time.Time  `json:"end_date"`
	Amount              int64      `json:"amount"`
	ActiveStatus        bool       `json:"active_status"`
	Grace               bool       `json:"grace"`
	GracePeriodDays     int        `json:"grace_period_days"`
	GraceActivationDate *time.Time `json:"grace_activation_date"`
	GraceRemainingDays  int        `json:"grace_remaining_days"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NewSessionResponse maps a session model to its API shape, deriving the
// grace countdown from the reference time.
func NewSessionResponse(session models.Session, reference time.Time) SessionResponse {
	return SessionResponse{
		ID:                  session.ID,
		SessionName:         session.SessionName,
		StartDate:           session.StartDate,
		EndDate:             session.EndDate,
		Amount:              session.Amount,
		ActiveStatus:        session.ActiveStatus,
		Grace:               session.Grace,
		GracePeriodDays:     session.GracePeriodDays,
		GraceActivationDate: session.GraceActivationDate,
		GraceRemainingDays:  session.GraceRemainingDays(reference),
		CreatedAt:           session.CreatedAt,
		UpdatedAt:           session.UpdatedAt,
	}
}

// NewSessionResponseSlice maps a slice of session models.
func NewSessionResponseSlice(sessions []models.Session, reference time.Time) []SessionResponse {
	responses := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, NewSessionResponse(session, reference))
	}
	return responses
}
