package dto

import (
	"time"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// ScanResponse is the API shape of a single scan attempt.
type ScanResponse struct {
	ID           uint                `json:"id"`
	Date         time.Time           `json:"date"`
	Status       models.ScanStatus   `json:"status"`
	ScanType     models.ScanType     `json:"scan_type"`
	CampusStatus models.CampusStatus `json:"campus_status"`
	StudentID    *uint               `json:"student_id"`
}

// ScanResultResponse reports the outcome of a gate scan, echoing the
// student's registration state at scan time.
type ScanResultResponse struct {
	RegistrationStatus models.RegistrationStatus `json:"registration_status"`
	Scan               ScanResponse              `json:"scan"`
	Student            *StudentResponse          `json:"student,omitempty"`
	ClassName          string                    `json:"class_name,omitempty"`
}

// NewScanResponse maps a scan model to its API shape.
func NewScanResponse(scan models.Scan) ScanResponse {
	return ScanResponse{
		ID:           scan.ID,
		Date:         scan.Date,
		Status:       scan.Status,
		ScanType:     scan.ScanType,
		CampusStatus: scan.CampusStatus,
		StudentID:    scan.StudentID,
	}
}

// NewScanResponseSlice maps a slice of scan models.
func NewScanResponseSlice(scans []models.Scan) []ScanResponse {
	responses := make([]ScanResponse, 0, len(scans))
	for _, scan := range scans {
		responses = append(responses, NewScanResponse(scan))
	}
	return responses
}

// ScanListResponse wraps a paginated scan listing.
type ScanListResponse struct {
	Scans       []ScanResponse `json:"scans"`
	Total       int64          `json:"total"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
}
