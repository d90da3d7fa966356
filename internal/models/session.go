package models

import "time"

// Session represents an enrollment period with a required fee. At most one
// session is active at a time; the Version column guards concurrent
// activation attempts.
type Session struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	SessionName         string     `gorm:"size:255;not null" json:"session_name"`
	StartDate           time.Time  `gorm:"not null" json:"start_date"`
	EndDate             time.Time  `gorm:"not null" json:"end_date"`
	Amount              int64      `gorm:"not null" json:"amount"`
	ActiveStatus        bool       `gorm:"default:false" json:"active_status"`
	Grace               bool       `gorm:"default:false" json:"grace"`
	GracePeriodDays     int        `json:"grace_period_days"`
	GraceActivationDate *time.Time `json:"grace_activation_date"`
	Version             uint       `gorm:"default:0" json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// GraceRemainingDays returns the days left before the grace period expires.
func (s Session) GraceRemainingDays(reference time.Time) int {
	if !s.Grace || s.GraceActivationDate == nil {
		return 0
	}
	elapsed := int(reference.Sub(*s.GraceActivationDate).Hours() / 24)
	remaining := s.GracePeriodDays - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GraceExpired reports whether an active grace countdown has run out.
func (s Session) GraceExpired(reference time.Time) bool {
	return s.Grace && s.GraceActivationDate != nil && s.GraceRemainingDays(reference) == 0
}

// Expired reports whether the session's end date has passed.
func (s Session) Expired(reference time.Time) bool {
	return reference.After(s.EndDate)
}
