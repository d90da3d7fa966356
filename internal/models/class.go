package models

import "time"

// Class represents an academic program students enroll into.
type Class struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	ClassInitial  string    `gorm:"size:16;not null" json:"class_initial"`
	DurationYears int       `gorm:"default:3" json:"duration_years"`
	RequiredFee   int64     `json:"required_fee"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
