package service

import (
	"context"
	"net/http"
	"testing"

	"marma_admin/internal/common"
	"marma_admin/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBookingService(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBookingRepo(
		&model.Booking{ID: 1, Service: "Marma session", Status: model.BookingUpcoming},
		&model.Booking{ID: 2, Service: "Follow-up", Status: model.BookingCompleted},
	)
	svc := NewBookingService(repo, zap.NewNop())

	t.Run("status is case insensitive", func(t *testing.T) {
		b, err := svc.UpdateStatus(ctx, 1, "Ongoing")
		require.NoError(t, err)
		assert.Equal(t, model.BookingOngoing, b.Status)
	})

	t.Run("cancel is not a plain status change", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, 1, "cancelled")
		assert.Equal(t, MsgInvalidBookingStatus, err.Error())

		b, err := svc.Cancel(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, model.BookingCancelled, b.Status)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, err := svc.Cancel(ctx, 99)
		assert.Equal(t, http.StatusNotFound, common.HTTPStatusFromError(err))
		assert.Equal(t, MsgBookingNotFound, err.Error())
	})

	t.Run("list filter", func(t *testing.T) {
		page, err := svc.List(ctx, BookingListQuery{Status: "Completed", Page: model.NewPagination(1, 10)})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, model.BookingCompleted, repo.listFilter.Status)

		_, err = svc.List(ctx, BookingListQuery{Status: "all", Page: model.NewPagination(1, 10)})
		require.NoError(t, err)
		assert.Empty(t, repo.listFilter.Status)

		_, err = svc.List(ctx, BookingListQuery{Status: "archived"})
		assert.Equal(t, http.StatusBadRequest, common.HTTPStatusFromError(err))
	})
}

func TestOTPService_FilterRouting(t *testing.T) {
	repo := &fakeOTPRepo{}
	svc := NewOTPService(repo)
	ctx := context.Background()

	_, err := svc.Logs(ctx, OTPListQuery{Filter: "Verified"})
	require.NoError(t, err)
	assert.Equal(t, model.OTPVerified, repo.filter.Status)
	assert.Empty(t, repo.filter.Purpose)

	_, err = svc.Logs(ctx, OTPListQuery{Filter: "Booking"})
	require.NoError(t, err)
	assert.Equal(t, model.OTPBooking, repo.filter.Purpose)
	assert.Empty(t, repo.filter.Status)

	_, err = svc.Logs(ctx, OTPListQuery{Filter: "all", Search: "98"})
	require.NoError(t, err)
	assert.Empty(t, repo.filter.Status)
	assert.Empty(t, repo.filter.Purpose)
	assert.Equal(t, "98", repo.filter.Search)
}
