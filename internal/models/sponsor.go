package models

import "time"

// Sponsor represents a funding source backing one or more students.
type Sponsor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PrivateSponsorName is the self-pay sponsor students fall back to when their
// sponsor is deleted.
const PrivateSponsorName = "Private"
