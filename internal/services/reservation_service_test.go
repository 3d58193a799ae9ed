package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renthub_backend/internal/models"
	"renthub_backend/internal/services/dto"
	"renthub_backend/pkg/apperrors"
)

type reservationFixture struct {
	items        *fakeItemRepo
	reservations *fakeReservationRepo
	service      *reservationService
	item         *models.Item
}

func newReservationFixture(t *testing.T, quantity int) *reservationFixture {
	t.Helper()

	items := newFakeItemRepo()
	reservations := newFakeReservationRepo()
	reservations.guardEnabled = true

	item := items.add(&models.Item{
		OwnerID:     "owner-1",
		Title:       "Projector",
		Quantity:    quantity,
		PricePerDay: 40,
		IsAvailable: true,
		Moderation:  models.ModerationStatusApproved,
	})
	reservations.trackItem(item)

	svc := NewReservationService(reservations, items, NewAvailabilityService(reservations, nil), nil).(*reservationService)
	svc.now = func() time.Time { return day("2026-03-01") }

	return &reservationFixture{items: items, reservations: reservations, service: svc, item: item}
}

func (f *reservationFixture) pending(renterID, start, end string, quantity int) *models.Reservation {
	return f.reservations.add(&models.Reservation{
		ItemID:    f.item.ID,
		RenterID:  renterID,
		StartDate: day(start),
		EndDate:   day(end),
		Quantity:  quantity,
		Status:    models.ReservationStatusPending,
	})
}

func TestConfirm_OwnerOnly(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t, 2)
	res := f.pending("renter-1", "2026-03-10", "2026-03-12", 1)

	_, err := f.service.Confirm(context.Background(), "renter-1", res.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)

	resp, err := f.service.Confirm(context.Background(), "owner-1", res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, resp.Status)
}

func TestConfirm_RevalidatesCapacity(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t, 1)

	// Both renters requested while the unit was free; the first confirm
	// takes it, the second must fail.
	first := f.pending("renter-1", "2026-03-10", "2026-03-12", 1)
	second := f.pending("renter-2", "2026-03-11", "2026-03-13", 1)

	_, err := f.service.Confirm(context.Background(), "owner-1", first.ID)
	require.NoError(t, err)

	_, err = f.service.Confirm(context.Background(), "owner-1", second.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeCapacityConflict, appErr.Code)
}

func TestTransition_ConditionalUpdateConflict(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t, 2)
	res := f.pending("renter-1", "2026-03-10", "2026-03-12", 1)

	// Another actor moved the row between our read and write.
	loaded, _, err := f.service.load(context.Background(), res.ID)
	require.NoError(t, err)
	_, err = f.reservations.UpdateStatus(context.Background(), res.ID,
		models.ReservationStatusPending, models.ReservationStatusCancelled)
	require.NoError(t, err)

	_, err = f.service.transition(context.Background(), loaded, models.ReservationStatusConfirmed)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeStateConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "refresh and retry")
}

func TestFullLifecycle(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t, 2)
	res := f.pending("renter-1", "2026-03-10", "2026-03-12", 1)
	ctx := context.Background()

	steps := []struct {
		actor  string
		action func(ctx context.Context, actorID, id string) (*dto.ReservationResponse, error)
		want   models.ReservationStatus
	}{
		{"owner-1", f.service.Confirm, models.ReservationStatusConfirmed},
		{"renter-1", f.service.SubmitDeposit, models.ReservationStatusDepositSubmitted},
		{"owner-1", f.service.MarkOnTheWay, models.ReservationStatusOnTheWay},
		{"renter-1", f.service.MarkDelivered, models.ReservationStatusOngoing},
		{"renter-1", f.service.MarkReturned, models.ReservationStatusAwaitingOwnerConfirmation},
		{"owner-1", f.service.Complete, models.ReservationStatusCompleted},
	}
	for _, step := range steps {
		resp, err := step.action(ctx, step.actor, res.ID)
		require.NoError(t, err, "transition to %s", step.want)
		assert.Equal(t, step.want, resp.Status)
	}

	// Completed is terminal.
	_, err := f.service.Cancel(ctx, "renter-1", res.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}

func TestTransition_IllegalStep(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t, 2)
	res := f.pending("renter-1", "2026-03-10", "2026-03-12", 1)

	// pending -> on_the_way skips confirmation and deposit.
	_, err := f.service.MarkOnTheWay(context.Background(), "owner-1", res.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}

func TestCancel_RenterOnly(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t, 2)
	res := f.pending("renter-1", "2026-03-10", "2026-03-12", 1)

	_, err := f.service.Cancel(context.Background(), "owner-1", res.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)

	resp, err := f.service.Cancel(context.Background(), "renter-1", res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, resp.Status)
}

func TestCancel_AfterConfirmReleasesCapacity(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t, 1)
	res := f.pending("renter-1", "2026-03-10", "2026-03-12", 1)
	ctx := context.Background()

	_, err := f.service.Confirm(ctx, "owner-1", res.ID)
	require.NoError(t, err)

	remaining, err := f.service.availability.RemainingUnits(ctx, f.item.ID, f.item.Quantity,
		day("2026-03-10"), day("2026-03-12"))
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = f.service.Cancel(ctx, "renter-1", res.ID)
	require.NoError(t, err)

	remaining, err = f.service.availability.RemainingUnits(ctx, f.item.ID, f.item.Quantity,
		day("2026-03-10"), day("2026-03-12"))
	require.NoError(t, err)
	assert.Equal(t, 1, remaining, "cancelled reservation must stop consuming")
}

func TestGet_PartyOnly(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t, 2)
	res := f.pending("renter-1", "2026-03-10", "2026-03-12", 1)
	ctx := context.Background()

	_, err := f.service.Get(ctx, "stranger", res.ID)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)

	for _, actor := range []string{"renter-1", "owner-1"} {
		resp, err := f.service.Get(ctx, actor, res.ID)
		require.NoError(t, err)
		assert.Equal(t, res.ID, resp.ID)
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t, 2)

	_, err := f.service.Get(context.Background(), "renter-1", "missing")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestListMineAndForOwner(t *testing.T) {
	t.Parallel()
	f := newReservationFixture(t, 5)
	f.pending("renter-1", "2026-03-10", "2026-03-12", 1)
	f.pending("renter-1", "2026-03-20", "2026-03-22", 1)
	f.pending("renter-2", "2026-03-10", "2026-03-12", 1)
	ctx := context.Background()

	mine, err := f.service.ListMine(ctx, "renter-1")
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Total)

	owners, err := f.service.ListForOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 3, owners.Total)
}
