package bookingRepo

import (
	"context"
	"testing"
	"time"

	"putzelf/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBookingRepoCRUD(t *testing.T) {
	repo := NewInMemoryBookingRepo()
	ctx := context.Background()

	id, err := repo.Create(ctx, &models.Booking{Date: "2026-09-15", Status: models.StatusRequested})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-15", got.Date)

	got.Status = models.StatusConfirmed
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
}

func TestInMemoryBookingRepoNotFound(t *testing.T) {
	repo := NewInMemoryBookingRepo()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Update(ctx, &models.Booking{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryBookingRepoListFiltersAndSorts(t *testing.T) {
	repo := NewInMemoryBookingRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Booking{Location: "Vienna", Date: "2026-09-15", Category: models.CategoryStandard})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = repo.Create(ctx, &models.Booking{Location: "Graz", Date: "2026-09-16", Category: models.CategoryOffice})
	require.NoError(t, err)

	all, err := repo.List(ctx, models.BookingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first.
	assert.Equal(t, "Graz", all[0].Location)

	byDate, err := repo.List(ctx, models.BookingFilter{Date: "2026-09-15"})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, "Vienna", byDate[0].Location)

	byCategory, err := repo.List(ctx, models.BookingFilter{Category: models.CategoryOffice})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Graz", byCategory[0].Location)
}

func TestInMemoryBookingRepoListMatchesLegacyLabelExactly(t *testing.T) {
	repo := NewInMemoryBookingRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Booking{Category: models.CategoryLegacy, CategoryLabel: "Spring Deep Clean"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Booking{Category: models.CategoryLegacy, CategoryLabel: "Move-Out Cleaning"})
	require.NoError(t, err)

	// Filtering one legacy label must not sweep in every legacy booking.
	got, err := repo.List(ctx, models.BookingFilter{Category: models.CategoryLegacy, CategoryLabel: "Spring Deep Clean"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Spring Deep Clean", got[0].CategoryLabel)

	allLegacy, err := repo.List(ctx, models.BookingFilter{Category: models.CategoryLegacy})
	require.NoError(t, err)
	assert.Len(t, allLegacy, 2)
}
