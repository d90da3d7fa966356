package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-access-api/internal/dto"
	"github.com/noah-isme/campus-access-api/internal/models"
	"github.com/noah-isme/campus-access-api/internal/repository"
)

// ErrSessionNotFound indicates the requested session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionConflict indicates a concurrent update won the race for the
// session row; the caller should retry against fresh state.
var ErrSessionConflict = errors.New("session was modified concurrently")

// SessionService exposes payment-session use cases, including the
// reconciliation triggers that fire on session mutations.
type SessionService interface {
	List(ctx context.Context) ([]dto.SessionResponse, error)
	Get(ctx context.Context, id uint) (dto.SessionResponse, error)
	Create(ctx context.Context, payload dto.SessionCreateRequest) (dto.SessionResponse, error)
	Update(ctx context.Context, id uint, payload dto.SessionUpdateRequest) (dto.SessionResponse, error)
	Delete(ctx context.Context, id uint) error
}

type sessionService struct {
	sessions   repository.SessionRepository
	uow        repository.UnitOfWork
	reconciler *Reconciler
	validator  *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

// NewSessionService builds a new session service.
func NewSessionService(sessions repository.SessionRepository, uow repository.UnitOfWork, reconciler *Reconciler, validate *validator.Validate, logger zerolog.Logger) SessionService {
	return &sessionService{
		sessions:   sessions,
		uow:        uow,
		reconciler: reconciler,
		validator:  validate,
		logger:     logger.With().Str("component", "session_service").Logger(),
		now:        time.Now,
	}
}

func (s *sessionService) List(ctx context.Context) ([]dto.SessionResponse, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range sessions {
		if err := s.expireGrace(ctx, &sessions[i], now); err != nil {
			return nil, err
		}
	}

	return dto.NewSessionResponseSlice(sessions, now), nil
}

func (s *sessionService) Get(ctx context.Context, id uint) (dto.SessionResponse, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	return dto.NewSessionResponse(session, s.now()), nil
}

func (s *sessionService) Create(ctx context.Context, payload dto.SessionCreateRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	start, err := parseDate(payload.StartDate)
	if err != nil {
		return dto.SessionResponse{}, validationError("invalid start date")
	}
	end, err := parseDate(payload.EndDate)
	if err != nil {
		return dto.SessionResponse{}, validationError("invalid end date")
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if start.Before(today) {
		return dto.SessionResponse{}, validationError("start date cannot be in the past")
	}
	if !end.After(start) {
		return dto.SessionResponse{}, validationError("end date must be after start date")
	}

	existing, err := s.sessions.List(ctx)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	if err := validateSessionDates(existing, start, end); err != nil {
		return dto.SessionResponse{}, err
	}

	session := models.Session{
		SessionName:     payload.SessionName,
		StartDate:       start,
		EndDate:         end,
		Amount:          payload.Amount,
		GracePeriodDays: payload.GracePeriodDays,
	}

	previous := latestSessionEndingBefore(existing, start)

	err = s.uow.Do(ctx, func(tx repository.RepoSet) error {
		if err := tx.Sessions.Create(ctx, &session); err != nil {
			return err
		}

		if previous != nil {
			if err := s.reconciler.SeedCarryOver(ctx, tx, *previous, session); err != nil {
				return err
			}
		}

		if payload.ActiveStatus {
			if err := s.checkActivationOrder(existing, session, now); err != nil {
				return err
			}
			session.ActiveStatus = true
			if err := tx.Sessions.Update(ctx, &session); err != nil {
				return err
			}
			if err := tx.Sessions.DeactivateOthers(ctx, session.ID); err != nil {
				return err
			}
			return s.reconciler.ReconcileAll(ctx, tx, session)
		}
		return nil
	})
	if err != nil {
		return dto.SessionResponse{}, err
	}

	s.logger.Info().
		Uint("session_id", session.ID).
		Bool("active", session.ActiveStatus).
		Msg("session created")

	return dto.NewSessionResponse(session, now), nil
}

func (s *sessionService) Update(ctx context.Context, id uint, payload dto.SessionUpdateRequest) (dto.SessionResponse, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	now := s.now()
	expectedVersion := session.Version

	if payload.SessionName != nil {
		session.SessionName = *payload.SessionName
	}
	if payload.StartDate != nil {
		start, err := parseDate(*payload.StartDate)
		if err != nil {
			return dto.SessionResponse{}, validationError("invalid start date")
		}
		session.StartDate = start
	}
	if payload.EndDate != nil {
		end, err := parseDate(*payload.EndDate)
		if err != nil {
			return dto.SessionResponse{}, validationError("invalid end date")
		}
		session.EndDate = end
	}
	if !session.EndDate.After(session.StartDate) {
		return dto.SessionResponse{}, validationError("end date must be after start date")
	}

	amountChanged := false
	if payload.Amount != nil && *payload.Amount != session.Amount {
		if *payload.Amount <= 0 {
			return dto.SessionResponse{}, validationError("amount must be greater than 0")
		}
		session.Amount = *payload.Amount
		amountChanged = true
	}

	if payload.GracePeriodDays != nil {
		if *payload.GracePeriodDays < 0 {
			return dto.SessionResponse{}, validationError("grace period days cannot be negative")
		}
		session.GracePeriodDays = *payload.GracePeriodDays
	}

	activating := payload.ActiveStatus != nil && *payload.ActiveStatus && !session.ActiveStatus
	if payload.ActiveStatus != nil {
		session.ActiveStatus = *payload.ActiveStatus
	}

	graceChanged := false
	if payload.Grace != nil && *payload.Grace != session.Grace {
		graceChanged = true
		session.Grace = *payload.Grace
		if session.Grace {
			activation := now
			session.GraceActivationDate = &activation
		} else {
			session.GraceActivationDate = nil
		}
	}

	if activating {
		all, err := s.sessions.List(ctx)
		if err != nil {
			return dto.SessionResponse{}, err
		}
		if err := s.checkActivationOrder(all, session, now); err != nil {
			return dto.SessionResponse{}, err
		}
		// Activation always starts without grace.
		session.Grace = false
		session.GraceActivationDate = nil
		graceChanged = false
	}

	err = s.uow.Do(ctx, func(tx repository.RepoSet) error {
		if err := tx.Sessions.UpdateGuarded(ctx, &session, expectedVersion); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return ErrSessionConflict
			}
			return err
		}

		switch {
		case activating:
			if err := tx.Sessions.DeactivateOthers(ctx, session.ID); err != nil {
				return err
			}
			return s.reconciler.ReconcileAll(ctx, tx, session)
		case graceChanged || amountChanged:
			return s.reconciler.ReconcileSession(ctx, tx, session)
		}
		return nil
	})
	if err != nil {
		return dto.SessionResponse{}, err
	}

	s.logger.Info().
		Uint("session_id", session.ID).
		Bool("activated", activating).
		Bool("grace_changed", graceChanged).
		Bool("amount_changed", amountChanged).
		Msg("session updated")

	return dto.NewSessionResponse(session, now), nil
}

func (s *sessionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.loadSession(ctx, id); err != nil {
		return err
	}

	// Payments belong to the session and go first.
	return s.uow.Do(ctx, func(tx repository.RepoSet) error {
		if err := tx.Payments.DeleteBySession(ctx, id); err != nil {
			return err
		}
		if err := tx.Sessions.Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		return nil
	})
}

func (s *sessionService) loadSession(ctx context.Context, id uint) (models.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}

	if err := s.expireGrace(ctx, &session, s.now()); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// expireGrace persists the automatic grace reset once the countdown runs out.
// Expiry is the same grace-off transition as an explicit update: the write is
// version-guarded and the session's students are reconciled in the same
// transaction, so nobody forgiven during grace stays registered past it.
func (s *sessionService) expireGrace(ctx context.Context, session *models.Session, reference time.Time) error {
	if !session.GraceExpired(reference) {
		return nil
	}

	expectedVersion := session.Version
	session.Grace = false
	session.GraceActivationDate = nil

	err := s.uow.Do(ctx, func(tx repository.RepoSet) error {
		if err := tx.Sessions.UpdateGuarded(ctx, session, expectedVersion); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return ErrSessionConflict
			}
			return err
		}
		return s.reconciler.ReconcileSession(ctx, tx, *session)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Uint("session_id", session.ID).Msg("grace period expired")
	return nil
}

// checkActivationOrder enforces that only the chronologically current session
// may be activated: any other non-expired session that starts or ends earlier
// still has a claim on being the active one.
func (s *sessionService) checkActivationOrder(all []models.Session, candidate models.Session, reference time.Time) error {
	for _, other := range all {
		if other.ID == candidate.ID || other.Expired(reference) {
			continue
		}
		if other.StartDate.Before(candidate.StartDate) || other.EndDate.Before(candidate.EndDate) {
			return validationError("an earlier session is still running; only the current session can be activated")
		}
	}
	return nil
}

func validateSessionDates(existing []models.Session, start, end time.Time) error {
	var earliestStart *time.Time
	for _, other := range existing {
		if other.StartDate.Equal(start) || other.EndDate.Equal(end) {
			return validationError("a session with the same start or end date already exists")
		}
		if overlaps(start, end, other.StartDate, other.EndDate) {
			return validationError("session dates overlap an existing session")
		}
		if earliestStart == nil || other.StartDate.Before(*earliestStart) {
			first := other.StartDate
			earliestStart = &first
		}
	}
	if earliestStart != nil && end.Before(*earliestStart) {
		return validationError("end date precedes the earliest existing session")
	}
	return nil
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	switch {
	case !aStart.Before(bStart) && !aStart.After(bEnd):
		return true
	case !aEnd.Before(bStart) && !aEnd.After(bEnd):
		return true
	case aStart.Before(bStart) && aEnd.After(bEnd):
		return true
	}
	return false
}

func latestSessionEndingBefore(existing []models.Session, start time.Time) *models.Session {
	var previous *models.Session
	for i := range existing {
		if !existing[i].EndDate.Before(start) {
			continue
		}
		if previous == nil || existing[i].EndDate.After(previous.EndDate) {
			previous = &existing[i]
		}
	}
	return previous
}

func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
