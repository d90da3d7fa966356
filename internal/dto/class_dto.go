package dto

import (
	"time"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// ClassCreateRequest carries the payload for creating an academic class.
type ClassCreateRequest struct {
	Name          string `json:"name" validate:"required"`
	ClassInitial  string `json:"class_initial" validate:"required"`
	DurationYears int    `json:"duration_years" validate:"gte=0"`
	RequiredFee   int64  `json:"required_fee" validate:"gte=0"`
}

// ClassUpdateRequest carries optional mutations for a class.
type ClassUpdateRequest struct {
	Name          *string `json:"name"`
	ClassInitial  *string `json:"class_initial"`
	DurationYears *int    `json:"duration_years"`
	RequiredFee   *int64  `json:"required_fee"`
}

// ClassResponse is the API shape of a class.
type ClassResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	ClassInitial  string    `json:"class_initial"`
	DurationYears int       `json:"duration_years"`
	RequiredFee   int64     `json:"required_fee"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewClassResponse maps a class model to its API shape.
func NewClassResponse(class models.Class) ClassResponse {
	return ClassResponse{
		ID:            class.ID,
		Name:          class.Name,
		ClassInitial:  class.ClassInitial,
		DurationYears: class.DurationYears,
		RequiredFee:   class.RequiredFee,
		CreatedAt:     class.CreatedAt,
		UpdatedAt:     class.UpdatedAt,
	}
}

// NewClassResponseSlice maps a slice of class models.
func NewClassResponseSlice(classes []models.Class) []ClassResponse {
	responses := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, NewClassResponse(class))
	}
	return responses
}
