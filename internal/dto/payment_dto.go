package dto

import (
	"time"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// PaymentRecordRequest adds an installment to a student's ledger record for
// the active session.
type PaymentRecordRequest struct {
	StudentID uint  `json:"student_id" validate:"required"`
	Amount    int64 `json:"amount" validate:"required,gt=0"`
}

// PaymentResponse is the API shape of a ledger record.
type PaymentResponse struct {
	ID              uint                 `json:"id"`
	Amount          int64                `json:"amount"`
	SessionID       uint                 `json:"session_id"`
	StudentID       uint                 `json:"student_id"`
	PaymentStatus   models.PaymentStatus `json:"payment_status"`
	RemainingAmount int64                `json:"remaining_amount"`
	SessionName     string               `json:"session_name,omitempty"`
	StudentRegNo    string               `json:"student_reg_no,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// NewPaymentResponse maps a payment model to its API shape.
func NewPaymentResponse(payment models.Payment) PaymentResponse {
	response := PaymentResponse{
		ID:              payment.ID,
		Amount:          payment.Amount,
		SessionID:       payment.SessionID,
		StudentID:       payment.StudentID,
		PaymentStatus:   payment.PaymentStatus,
		RemainingAmount: payment.RemainingAmount,
		CreatedAt:       payment.CreatedAt,
		UpdatedAt:       payment.UpdatedAt,
	}
	if payment.Session != nil {
		response.SessionName = payment.Session.SessionName
	}
	if payment.Student != nil {
		response.StudentRegNo = payment.Student.RegNo
	}
	return response
}

// NewPaymentResponseSlice maps a slice of payment models.
func NewPaymentResponseSlice(payments []models.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, NewPaymentResponse(payment))
	}
	return responses
}
