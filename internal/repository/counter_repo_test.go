package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-access-api/internal/models"
)

func TestCounterRepositoryNextIsSequential(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCounterRepository(db)
	ctx := context.Background()

	first, err := repo.Next(ctx, models.CounterStudentNumber)
	require.NoError(t, err)
	require.Equal(t, int64(1), first)

	second, err := repo.Next(ctx, models.CounterStudentNumber)
	require.NoError(t, err)
	require.Equal(t, int64(2), second)

	// Independent sequences do not interfere.
	other, err := repo.Next(ctx, "receipt_number")
	require.NoError(t, err)
	require.Equal(t, int64(1), other)
}
