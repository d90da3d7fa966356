// Package registration holds the single rule deciding whether a student
// counts as registered for a session. Every reconciliation trigger and every
// write path that touches student status must go through Evaluate so the
// cached status cannot drift between code paths.
package registration

import (
	"strings"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// FundingSponsorName is the sponsor whose backing fully covers a student's
// session fee.
const FundingSponsorName = "Metfund"

// IsFundingSponsor reports whether the sponsor name denotes the fully-funding
// sponsor. Matching is case-insensitive.
func IsFundingSponsor(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), FundingSponsorName)
}

// Input carries the facts the rule is evaluated against.
type Input struct {
	FundingSponsor bool
	Grace          bool
	SessionAmount  int64
	PaidAmount     int64
}

// Outcome is the derived registration and payment state for one student.
type Outcome struct {
	Status          models.RegistrationStatus
	PaymentStatus   models.PaymentStatus
	RemainingAmount int64
}

// Evaluate applies the registration rule:
//
//  1. funding sponsor        -> REGISTERED, PAID, remaining 0
//  2. grace period active    -> REGISTERED, PAID, remaining kept outstanding
//  3. paid in full           -> REGISTERED, PAID, remaining 0
//  4. otherwise              -> NOT REGISTERED, PENDING, shortfall remaining
func Evaluate(in Input) Outcome {
	switch {
	case in.FundingSponsor:
		return Outcome{
			Status:        models.RegistrationStatusRegistered,
			PaymentStatus: models.PaymentStatusPaid,
		}
	case in.Grace:
		return Outcome{
			Status:          models.RegistrationStatusRegistered,
			PaymentStatus:   models.PaymentStatusPaid,
			RemainingAmount: shortfall(in.SessionAmount, in.PaidAmount),
		}
	case in.PaidAmount >= in.SessionAmount:
		return Outcome{
			Status:        models.RegistrationStatusRegistered,
			PaymentStatus: models.PaymentStatusPaid,
		}
	default:
		return Outcome{
			Status:          models.RegistrationStatusNotRegistered,
			PaymentStatus:   models.PaymentStatusPending,
			RemainingAmount: in.SessionAmount - in.PaidAmount,
		}
	}
}

// SeedAmount is the opening ledger amount for a freshly created payment
// record: the full session fee for funding-sponsored students, zero otherwise.
func SeedAmount(fundingSponsor bool, sessionAmount int64) int64 {
	if fundingSponsor {
		return sessionAmount
	}
	return 0
}

func shortfall(amount, paid int64) int64 {
	if paid >= amount {
		return 0
	}
	return amount - paid
}
