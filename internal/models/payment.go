package models

import "time"

// PaymentStatus tracks whether the session fee has been covered.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPending PaymentStatus = "PENDING"
)

// Payment is the running ledger record for a (student, session) pair. Amount
// accumulates as installments are recorded.
type Payment struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	Amount          int64         `gorm:"not null" json:"amount"`
	SessionID       uint          `gorm:"not null;uniqueIndex:idx_payment_student_session" json:"session_id"`
	StudentID       uint          `gorm:"not null;uniqueIndex:idx_payment_student_session" json:"student_id"`
	PaymentStatus   PaymentStatus `gorm:"size:16;not null;default:PENDING" json:"payment_status"`
	RemainingAmount int64         `json:"remaining_amount"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Session         *Session      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"session,omitempty"`
	Student         *Student      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student,omitempty"`
}
