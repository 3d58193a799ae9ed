package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renthub_backend/internal/models"
	"renthub_backend/internal/services/dto"
	"renthub_backend/pkg/apperrors"
)

type reviewFixture struct {
	reviews      *fakeReviewRepo
	reservations *fakeReservationRepo
	items        *fakeItemRepo
	service      ReviewService
	reservation  *models.Reservation
}

func newReviewFixture(t *testing.T, status models.ReservationStatus) *reviewFixture {
	t.Helper()

	items := newFakeItemRepo()
	reservations := newFakeReservationRepo()
	reviews := newFakeReviewRepo()

	item := items.add(&models.Item{
		OwnerID:    "lessor-1",
		Title:      "Camera",
		Quantity:   1,
		Moderation: models.ModerationStatusApproved,
	})
	reservations.trackItem(item)
	res := reservations.add(&models.Reservation{
		ItemID:    item.ID,
		RenterID:  "renter-1",
		StartDate: day("2026-03-10"),
		EndDate:   day("2026-03-12"),
		Quantity:  1,
		Status:    status,
	})

	return &reviewFixture{
		reviews:      reviews,
		reservations: reservations,
		items:        items,
		service:      NewReviewService(reviews, reservations, items),
		reservation:  res,
	}
}

func TestCanRate_CompletedRenter(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t, models.ReservationStatusCompleted)

	eligibility, err := f.service.CanRate(context.Background(), f.reservation.ID, "renter-1")
	require.NoError(t, err)
	assert.True(t, eligibility.Allowed)
	assert.Equal(t, "lessor-1", eligibility.LessorID)
}

func TestCanRate_NotCompleted(t *testing.T) {
	t.Parallel()

	for _, status := range []models.ReservationStatus{
		models.ReservationStatusPending,
		models.ReservationStatusConfirmed,
		models.ReservationStatusOngoing,
		models.ReservationStatusCancelled,
		models.ReservationStatusRejected,
		models.ReservationStatusExpired,
	} {
		f := newReviewFixture(t, status)
		eligibility, err := f.service.CanRate(context.Background(), f.reservation.ID, "renter-1")
		require.NoError(t, err)
		assert.False(t, eligibility.Allowed, "status %s must not be ratable", status)
		assert.Equal(t, "Reservation is not completed", eligibility.Reason)
	}
}

func TestCanRate_WrongReviewer(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t, models.ReservationStatusCompleted)

	eligibility, err := f.service.CanRate(context.Background(), f.reservation.ID, "lessor-1")
	require.NoError(t, err)
	assert.False(t, eligibility.Allowed)
	assert.Equal(t, "Only the renter can rate this reservation", eligibility.Reason)
}

func TestCanRate_MissingReservation(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t, models.ReservationStatusCompleted)

	_, err := f.service.CanRate(context.Background(), "missing", "renter-1")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestRateOrUpdate_CreatesThenUpdates(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t, models.ReservationStatusCompleted)
	ctx := context.Background()

	first, err := f.service.RateOrUpdate(ctx, "renter-1", &dto.RateRequest{
		ReservationID: f.reservation.ID, Rating: 5, Comment: "great kit",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, first.Rating)

	// Second submission replaces the rating, it does not add a row.
	second, err := f.service.RateOrUpdate(ctx, "renter-1", &dto.RateRequest{
		ReservationID: f.reservation.ID, Rating: 3, Comment: "changed my mind",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Rating)
	assert.Equal(t, "changed my mind", second.Comment)

	stats, err := f.service.RatingStats(ctx, "lessor-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Count)
	assert.InDelta(t, 3.0, stats.Average, 1e-9)
}

func TestRateOrUpdate_RatingBoundsCheckedBeforePersistence(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t, models.ReservationStatusCompleted)
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := f.service.RateOrUpdate(ctx, "renter-1", &dto.RateRequest{
			ReservationID: f.reservation.ID, Rating: rating,
		})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok, "rating %d", rating)
		assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	}

	stats, err := f.service.RatingStats(ctx, "lessor-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Count, "no review may be stored on validation failure")
}

func TestRateOrUpdate_IneligibleReviewer(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t, models.ReservationStatusOngoing)

	_, err := f.service.RateOrUpdate(context.Background(), "renter-1", &dto.RateRequest{
		ReservationID: f.reservation.ID, Rating: 4,
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestRatingStats_Aggregation(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t, models.ReservationStatusCompleted)
	ctx := context.Background()

	for i, rating := range []int{5, 3, 4} {
		renter := "renter-" + string(rune('a'+i))
		res := f.reservations.add(&models.Reservation{
			ItemID:    f.reservation.ItemID,
			RenterID:  renter,
			StartDate: day("2026-03-10"),
			EndDate:   day("2026-03-12"),
			Quantity:  1,
			Status:    models.ReservationStatusCompleted,
		})
		_, err := f.service.RateOrUpdate(ctx, renter, &dto.RateRequest{
			ReservationID: res.ID, Rating: rating,
		})
		require.NoError(t, err)
	}

	stats, err := f.service.RatingStats(ctx, "lessor-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Count)
	assert.InDelta(t, 4.0, stats.Average, 1e-9)
}

func TestRatingStats_NoReviews(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t, models.ReservationStatusCompleted)

	stats, err := f.service.RatingStats(context.Background(), "lessor-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Count)
	assert.InDelta(t, 0.0, stats.Average, 1e-9)
}

func TestListLessorReviews_Pagination(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t, models.ReservationStatusCompleted)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		renter := "renter-" + string(rune('a'+i))
		res := f.reservations.add(&models.Reservation{
			ItemID:   f.reservation.ItemID,
			RenterID: renter,
			StartDate: day("2026-03-10"),
			EndDate:   day("2026-03-12"),
			Quantity: 1,
			Status:   models.ReservationStatusCompleted,
		})
		_, err := f.service.RateOrUpdate(ctx, renter, &dto.RateRequest{
			ReservationID: res.ID, Rating: 4,
		})
		require.NoError(t, err)
	}

	page, err := f.service.ListLessorReviews(ctx, "lessor-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Len(t, page.Reviews, 2)
	assert.Equal(t, 3, page.TotalPages)
}
