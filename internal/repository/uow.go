package repository

import (
	"context"

	"gorm.io/gorm"
)

// RepoSet bundles the repositories a reconciliation pass touches, bound to a
// single transaction when obtained through a UnitOfWork.
type RepoSet struct {
	Sessions SessionRepository
	Students StudentRepository
	Payments PaymentRepository
	Sponsors SponsorRepository
	Counters CounterRepository
}

// UnitOfWork runs a function against repositories sharing one transaction.
// Either every write in fn commits or none do.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx RepoSet) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork builds a transaction runner over the given database handle.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(tx RepoSet) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(RepoSet{
			Sessions: NewSessionRepository(tx),
			Students: NewStudentRepository(tx),
			Payments: NewPaymentRepository(tx),
			Sponsors: NewSponsorRepository(tx),
			Counters: NewCounterRepository(tx),
		})
	})
}
