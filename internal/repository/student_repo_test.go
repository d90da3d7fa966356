package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-access-api/internal/models"
)

func seedStudent(t *testing.T, db interface {
	Create(ctx context.Context, student *models.Student) error
}, number int64, firstName string) models.Student {
	t.Helper()
	student := models.Student{
		StudentNumber: number,
		FirstName:     firstName,
		SecondName:    "M",
		LastName:      "Okello",
		Email:         firstName + "@example.com",
		PhoneNumber:   "+256700000000",
		Nationality:   "Ugandan",
		Gender:        "F",
		RegNo:         "SE/26/" + firstName,
		ClassID:       1,
		SponsorID:     1,
		Status:        models.RegistrationStatusNotRegistered,
		CampusStatus:  models.CampusStatusOutCampus,
	}
	require.NoError(t, db.Create(context.Background(), &student))
	return student
}

func TestStudentRepositoryListFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	amina := seedStudent(t, repo, 1, "Amina")
	seedStudent(t, repo, 2, "Brian")
	seedStudent(t, repo, 3, "Clara")

	students, total, err := repo.List(ctx, StudentFilter{Name: "amina", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, students, 1)
	require.Equal(t, "Amina", students[0].FirstName)

	students, total, err = repo.List(ctx, StudentFilter{RegNo: amina.RegNo, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	students, total, err = repo.List(ctx, StudentFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, students, 1)
	require.Equal(t, "Clara", students[0].FirstName, "ordered by student number")
}

func TestStudentRepositoryBulkSetStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	first := seedStudent(t, repo, 1, "Amina")
	second := seedStudent(t, repo, 2, "Brian")
	untouched := seedStudent(t, repo, 3, "Clara")

	require.NoError(t, repo.BulkSetStatus(ctx, []uint{first.ID, second.ID}, models.RegistrationStatusRegistered, 7))
	require.NoError(t, repo.BulkSetStatus(ctx, nil, models.RegistrationStatusRegistered, 7))

	for _, id := range []uint{first.ID, second.ID} {
		student, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, models.RegistrationStatusRegistered, student.Status)
		require.Equal(t, uint(7), student.SessionID)
	}

	student, err := repo.GetByID(ctx, untouched.ID)
	require.NoError(t, err)
	require.Equal(t, models.RegistrationStatusNotRegistered, student.Status)
}

func TestStudentRepositoryReassignSponsor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	first := seedStudent(t, repo, 1, "Amina")
	second := seedStudent(t, repo, 2, "Brian")

	listed, err := repo.ListBySponsor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	moved, err := repo.ReassignSponsor(ctx, 1, 9)
	require.NoError(t, err)
	require.Equal(t, int64(2), moved)

	for _, id := range []uint{first.ID, second.ID} {
		student, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, uint(9), student.SponsorID)
	}

	listed, err = repo.ListBySponsor(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestStudentRepositoryUpdateCampusStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	student := seedStudent(t, repo, 1, "Amina")
	scannedAt := time.Now().Truncate(time.Second)

	require.NoError(t, repo.UpdateCampusStatus(ctx, student.ID, models.CampusStatusInCampus, scannedAt))

	after, err := repo.GetByID(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, models.CampusStatusInCampus, after.CampusStatus)
	require.NotNil(t, after.LastScanDate)
}

func TestStudentRepositoryCountByClassAndStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	registered := seedStudent(t, repo, 1, "Amina")
	registered.Status = models.RegistrationStatusRegistered
	require.NoError(t, repo.Update(ctx, &registered))
	seedStudent(t, repo, 2, "Brian")

	count, err := repo.CountByClassAndStatus(ctx, 1, models.RegistrationStatusRegistered)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	count, err = repo.CountByClassAndStatus(ctx, 1, models.RegistrationStatusNotRegistered)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
