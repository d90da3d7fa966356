package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/campus-access-api/internal/models"
)

// CounterRepository allocates sequential numbers.
type CounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository constructs a counter repository.
func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

// Next increments and returns the named sequence. The counter row is locked
// for the duration of the transaction so concurrent allocations cannot hand
// out the same number.
func (r *counterRepository) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter models.Counter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", name).
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = models.Counter{Name: name, Value: 1}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
			value = counter.Value
			return nil
		}
		if err != nil {
			return err
		}

		counter.Value++
		if err := tx.Save(&counter).Error; err != nil {
			return err
		}
		value = counter.Value
		return nil
	})
	return value, err
}
