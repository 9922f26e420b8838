package service

import (
	"context"
	"testing"
	"time"

	"marma_admin/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_AdminStats(t *testing.T) {
	users := newFakeUserRepo(
		&model.User{Email: "admin@example.com", Role: model.RoleAdmin},
		&model.User{Email: "t@example.com", Role: model.RoleTherapist},
		&model.User{Email: "l@example.com", Role: model.RoleLearner},
	)
	bookings := newFakeBookingRepo()
	bookings.monthCounts = [2]int{7, 3}
	svc := NewDashboardService(users, bookings)
	svc.now = func() time.Time { return time.Date(2026, 12, 20, 18, 30, 0, 0, time.UTC) }

	stats, err := svc.AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DashboardStats{TotalUsers: 2, TherapistsCount: 1, BookingsThisMonth: 7, CompletedSessions: 3}, stats)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), bookings.from)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), bookings.to)
}

func TestDashboardService_UserDashboard(t *testing.T) {
	svc := NewDashboardService(newFakeUserRepo(), newFakeBookingRepo())
	got := svc.UserDashboard(model.Principal{ID: 4, Name: "Lee", Email: "lee@example.com", Role: model.RoleUser})
	assert.Equal(t, model.UserDashboard{UserID: 4, Name: "Lee", Email: "lee@example.com", Role: model.RoleUser}, got)
}
