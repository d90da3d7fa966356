package dto

import (
	"time"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// SponsorCreateRequest carries the payload for creating a sponsor.
type SponsorCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

// SponsorUpdateRequest renames a sponsor.
type SponsorUpdateRequest struct {
	Name string `json:"name" validate:"required"`
}

// SponsorResponse is the API shape of a sponsor.
type SponsorResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SponsorDeleteResponse reports a sponsor removal and how many students were
// moved to the private sponsor.
type SponsorDeleteResponse struct {
	Sponsor         SponsorResponse `json:"sponsor"`
	StudentsUpdated int64           `json:"students_updated"`
	FallbackSponsor string          `json:"fallback_sponsor"`
}

// NewSponsorResponse maps a sponsor model to its API shape.
func NewSponsorResponse(sponsor models.Sponsor) SponsorResponse {
	return SponsorResponse{
		ID:        sponsor.ID,
		Name:      sponsor.Name,
		CreatedAt: sponsor.CreatedAt,
		UpdatedAt: sponsor.UpdatedAt,
	}
}

// NewSponsorResponseSlice maps a slice of sponsor models.
func NewSponsorResponseSlice(sponsors []models.Sponsor) []SponsorResponse {
	responses := make([]SponsorResponse, 0, len(sponsors))
	for _, sponsor := range sponsors {
		responses = append(responses, NewSponsorResponse(sponsor))
	}
	return responses
}
