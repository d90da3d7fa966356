package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/models"
	"github.com/noah-isme/campus-access-api/internal/registration"
	"github.com/noah-isme/campus-access-api/internal/repository"
)

// Reconciler recomputes every affected student's cached registration status
// (and their ledger record) when a session's financial terms change. All
// methods expect repositories bound to one transaction so a failing fan-out
// leaves no partially reconciled students behind.
type Reconciler struct {
	logger zerolog.Logger
}

// NewReconciler builds the reconciliation engine.
func NewReconciler(logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		logger: logger.With().Str("component", "reconciler").Logger(),
	}
}

// ReconcileAll re-evaluates every student against the given session,
// regardless of which session they were previously enrolled in. Used on
// session activation: each student gets a ledger record for the session if
// they lack one, then the registration rule decides their status.
func (r *Reconciler) ReconcileAll(ctx context.Context, tx repository.RepoSet, session models.Session) error {
	students, err := tx.Students.ListAll(ctx)
	if err != nil {
		return err
	}
	return r.reconcile(ctx, tx, session, students)
}

// ReconcileSession re-evaluates only the students enrolled in the session.
// Used for grace-flag and amount changes.
func (r *Reconciler) ReconcileSession(ctx context.Context, tx repository.RepoSet, session models.Session) error {
	students, err := tx.Students.ListBySession(ctx, session.ID)
	if err != nil {
		return err
	}
	return r.reconcile(ctx, tx, session, students)
}

func (r *Reconciler) reconcile(ctx context.Context, tx repository.RepoSet, session models.Session, students []models.Student) error {
	sponsorNames, err := r.sponsorNames(ctx, tx)
	if err != nil {
		return err
	}

	// Students whose cached status (or session reference) changes are grouped
	// by outcome and written in bulk.
	statusGroups := map[models.RegistrationStatus][]uint{}

	for _, student := range students {
		funding := registration.IsFundingSponsor(sponsorNames[student.SponsorID])

		payment, err := tx.Payments.GetByStudentAndSession(ctx, student.ID, session.ID)
		created := false
		if errors.Is(err, gorm.ErrRecordNotFound) {
			payment = models.Payment{
				Amount:    registration.SeedAmount(funding, session.Amount),
				SessionID: session.ID,
				StudentID: student.ID,
			}
			created = true
		} else if err != nil {
			return err
		}

		outcome := registration.Evaluate(registration.Input{
			FundingSponsor: funding,
			Grace:          session.Grace,
			SessionAmount:  session.Amount,
			PaidAmount:     payment.Amount,
		})

		if created {
			payment.PaymentStatus = outcome.PaymentStatus
			payment.RemainingAmount = outcome.RemainingAmount
			if err := tx.Payments.Create(ctx, &payment); err != nil {
				return err
			}
		} else if payment.PaymentStatus != outcome.PaymentStatus || payment.RemainingAmount != outcome.RemainingAmount {
			payment.PaymentStatus = outcome.PaymentStatus
			payment.RemainingAmount = outcome.RemainingAmount
			if err := tx.Payments.Update(ctx, &payment); err != nil {
				return err
			}
		}

		if student.Status != outcome.Status || student.SessionID != session.ID {
			statusGroups[outcome.Status] = append(statusGroups[outcome.Status], student.ID)
		}
	}

	for status, ids := range statusGroups {
		if err := tx.Students.BulkSetStatus(ctx, ids, status, session.ID); err != nil {
			return err
		}
		r.logger.Info().
			Uint("session_id", session.ID).
			Str("status", string(status)).
			Int("students", len(ids)).
			Msg("registration status reconciled")
	}

	return nil
}

// SeedCarryOver creates ledger records in the next session for students who
// overpaid the previous one, crediting the surplus. Runs when a new session
// is created after the previous one ended.
func (r *Reconciler) SeedCarryOver(ctx context.Context, tx repository.RepoSet, previous, next models.Session) error {
	payments, err := tx.Payments.ListBySession(ctx, previous.ID)
	if err != nil {
		return err
	}

	seeded := 0
	for _, payment := range payments {
		if payment.Amount <= previous.Amount {
			continue
		}
		credit := payment.Amount - previous.Amount

		if _, err := tx.Payments.GetByStudentAndSession(ctx, payment.StudentID, next.ID); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		outcome := registration.Evaluate(registration.Input{
			SessionAmount: next.Amount,
			PaidAmount:    credit,
		})
		carried := models.Payment{
			Amount:          credit,
			SessionID:       next.ID,
			StudentID:       payment.StudentID,
			PaymentStatus:   outcome.PaymentStatus,
			RemainingAmount: outcome.RemainingAmount,
		}
		if err := tx.Payments.Create(ctx, &carried); err != nil {
			return err
		}
		seeded++
	}

	if seeded > 0 {
		r.logger.Info().
			Uint("previous_session_id", previous.ID).
			Uint("session_id", next.ID).
			Int("payments", seeded).
			Msg("overpayment credits carried over")
	}
	return nil
}

func (r *Reconciler) sponsorNames(ctx context.Context, tx repository.RepoSet) (map[uint]string, error) {
	sponsors, err := tx.Sponsors.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(sponsors))
	for _, sponsor := range sponsors {
		names[sponsor.ID] = sponsor.Name
	}
	return names, nil
}
