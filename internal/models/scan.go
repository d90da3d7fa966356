package models

import "time"

// ScanStatus is the outcome of a campus gate scan attempt.
type ScanStatus string

const (
	ScanStatusCompleted ScanStatus = "COMPLETED"
	ScanStatusFailed    ScanStatus = "FAILED"
	ScanStatusNotFound  ScanStatus = "NOT FOUND"
)

// ScanType distinguishes gate direction.
type ScanType string

const (
	ScanTypeEntry ScanType = "ENTRY"
	ScanTypeExit  ScanType = "EXIT"
)

// Scan is an append-only record of a campus entry or exit attempt. StudentID
// is nil only when the scanned identifier matched no student.
type Scan struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Date         time.Time    `gorm:"not null" json:"date"`
	Status       ScanStatus   `gorm:"size:16;not null" json:"status"`
	ScanType     ScanType     `gorm:"size:8;not null" json:"scan_type"`
	CampusStatus CampusStatus `gorm:"size:16;not null" json:"campus_status"`
	StudentID    *uint        `json:"student_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Student      *Student     `json:"student,omitempty"`
}
