package dto

import (
	"time"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// StudentCreateRequest carries the payload for enrolling a student.
type StudentCreateRequest struct {
	FirstName      string `json:"first_name" validate:"required"`
	SecondName     string `json:"second_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phone_number" validate:"required"`
	Nationality    string `json:"nationality" validate:"required"`
	Gender         string `json:"gender" validate:"required"`
	ClassID        uint   `json:"class_id" validate:"required"`
	SponsorID      uint   `json:"sponsor_id" validate:"required"`
	EnrollmentYear int    `json:"enrollment_year" validate:"required"`
}

// StudentUpdateRequest carries optional mutations for a student's identity
// fields. Registration status is owned by the reconciler and not settable.
type StudentUpdateRequest struct {
	FirstName   *string `json:"first_name"`
	SecondName  *string `json:"second_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Nationality *string `json:"nationality"`
	Gender      *string `json:"gender"`
	ClassID     *uint   `json:"class_id"`
}

// StudentSponsorUpdateRequest swaps the sponsor backing a student.
type StudentSponsorUpdateRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	SponsorID uint `json:"sponsor_id" validate:"required"`
}

// StudentResponse is the API shape of a student record.
type StudentResponse struct {
	ID             uint                      `json:"id"`
	StudentNumber  int64                     `json:"student_number"`
	FirstName      string                    `json:"first_name"`
	SecondName     string                    `json:"second_name"`
	LastName       string                    `json:"last_name"`
	Email          string                    `json:"email"`
	PhoneNumber    string                    `json:"phone_number"`
	Nationality    string                    `json:"nationality"`
	Gender         string                    `json:"gender"`
	RegNo          string                    `json:"reg_no"`
	ClassID        uint                      `json:"class_id"`
	SponsorID      uint                      `json:"sponsor_id"`
	SessionID      uint                      `json:"session_id"`
	Status         models.RegistrationStatus `json:"status"`
	CampusStatus   models.CampusStatus       `json:"campus_status"`
	LastScanDate   *time.Time                `json:"last_scan_date"`
	EnrollmentYear int                       `json:"enrollment_year"`
	ClassName      string                    `json:"class_name,omitempty"`
	SponsorName    string                    `json:"sponsor_name,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// NewStudentResponse maps a student model to its API shape.
func NewStudentResponse(student models.Student) StudentResponse {
	response := StudentResponse{
		ID:             student.ID,
		StudentNumber:  student.StudentNumber,
		FirstName:      student.FirstName,
		SecondName:     student.SecondName,
		LastName:       student.LastName,
		Email:          student.Email,
		PhoneNumber:    student.PhoneNumber,
		Nationality:    student.Nationality,
		Gender:         student.Gender,
		RegNo:          student.RegNo,
		ClassID:        student.ClassID,
		SponsorID:      student.SponsorID,
		SessionID:      student.SessionID,
		Status:         student.Status,
		CampusStatus:   student.CampusStatus,
		LastScanDate:   student.LastScanDate,
		EnrollmentYear: student.EnrollmentYear,
		CreatedAt:      student.CreatedAt,
		UpdatedAt:      student.UpdatedAt,
	}
	if student.Class != nil {
		response.ClassName = student.Class.Name
	}
	if student.Sponsor != nil {
		response.SponsorName = student.Sponsor.Name
	}
	return response
}

// NewStudentResponseSlice maps a slice of student models.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}

// StudentListResponse wraps a paginated student listing.
type StudentListResponse struct {
	Students    []StudentResponse `json:"students"`
	Total       int64             `json:"total"`
	TotalPages  int               `json:"total_pages"`
	CurrentPage int               `json:"current_page"`
}

// ClassStatsResponse aggregates registration counts per class initial.
type ClassStatsResponse struct {
	Registered    map[string]int64 `json:"registered"`
	Unregistered  map[string]int64 `json:"unregistered"`
	ClassInitials []string         `json:"class_initials"`
}
