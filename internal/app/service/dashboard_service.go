package service

import (
	"context"
	"fmt"
	"time"

	"marma_admin/internal/domain/model"
	"marma_admin/internal/domain/repository"
)

type DashboardService struct {
	userRepo    repository.UserRepository
	bookingRepo repository.BookingRepository
	now         func() time.Time
}

func NewDashboardService(userRepo repository.UserRepository, bookingRepo repository.BookingRepository) *DashboardService {
	return &DashboardService{userRepo: userRepo, bookingRepo: bookingRepo, now: time.Now}
}

// AdminStats counts non-admin users, therapist accounts and this month's bookings.
func (s *DashboardService) AdminStats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	var err error

	if stats.TotalUsers, err = s.userRepo.CountNonAdmin(ctx); err != nil {
		return stats, fmt.Errorf("dashboard users: %w", err)
	}
	if stats.TherapistsCount, err = s.userRepo.CountByRole(ctx, model.RoleTherapist); err != nil {
		return stats, fmt.Errorf("dashboard therapists: %w", err)
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)
	stats.BookingsThisMonth, stats.CompletedSessions, err = s.bookingRepo.CountBetween(ctx, monthStart, nextMonth)
	if err != nil {
		return stats, fmt.Errorf("dashboard bookings: %w", err)
	}
	return stats, nil
}

func (s *DashboardService) UserDashboard(p model.Principal) model.UserDashboard {
	return model.UserDashboard{UserID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role}
}
