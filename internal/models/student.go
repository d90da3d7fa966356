package models

import "time"

// RegistrationStatus is the derived enrollment state of a student. It caches
// the outcome of the registration rule and is owned by the reconciler.
type RegistrationStatus string

const (
	RegistrationStatusRegistered    RegistrationStatus = "REGISTERED"
	RegistrationStatusNotRegistered RegistrationStatus = "NOT REGISTERED"
)

// CampusStatus tracks a student's physical presence on campus.
type CampusStatus string

const (
	CampusStatusInCampus  CampusStatus = "IN_CAMPUS"
	CampusStatusOutCampus CampusStatus = "OUT_CAMPUS"
)

// Student represents an enrolled learner tied to a sponsor, a class and the
// session they were last reconciled against.
type Student struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	StudentNumber  int64              `gorm:"uniqueIndex;not null" json:"student_number"`
	FirstName      string             `gorm:"size:255;not null" json:"first_name"`
	SecondName     string             `gorm:"size:255;not null" json:"second_name"`
	LastName       string             `gorm:"size:255;not null" json:"last_name"`
	Email          string             `gorm:"size:255;not null" json:"email"`
	PhoneNumber    string             `gorm:"size:32;not null" json:"phone_number"`
	Nationality    string             `gorm:"size:64;not null" json:"nationality"`
	Gender         string             `gorm:"size:16;not null" json:"gender"`
	RegNo          string             `gorm:"size:64;uniqueIndex;not null" json:"reg_no"`
	ClassID        uint               `gorm:"not null" json:"class_id"`
	SponsorID      uint               `gorm:"not null" json:"sponsor_id"`
	SessionID      uint               `json:"session_id"`
	Status         RegistrationStatus `gorm:"size:32;not null" json:"status"`
	CampusStatus   CampusStatus       `gorm:"size:16;not null;default:OUT_CAMPUS" json:"campus_status"`
	LastScanDate   *time.Time         `json:"last_scan_date"`
	EnrollmentYear int                `gorm:"not null" json:"enrollment_year"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Class          *Class             `json:"class,omitempty"`
	Sponsor        *Sponsor           `json:"sponsor,omitempty"`
	Session        *Session           `json:"session,omitempty"`
}
