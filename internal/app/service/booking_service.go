package service

import (
	"context"
	"errors"
	"fmt"

	"marma_admin/internal/common"
	"marma_admin/internal/domain/model"
	"marma_admin/internal/domain/repository"

	"go.uber.org/zap"
)

const (
	MsgBookingNotFound      = "Booking not found"
	MsgInvalidBookingStatus = "Invalid status. Status must be Upcoming, Ongoing or Completed."
)

type BookingService struct {
	repo repository.BookingRepository
	log  *zap.Logger
}

func NewBookingService(repo repository.BookingRepository, log *zap.Logger) *BookingService {
	return &BookingService{repo: repo, log: log}
}

func (s *BookingService) Stats(ctx context.Context) (model.BookingStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return model.BookingStats{}, fmt.Errorf("failed to load booking stats: %w", err)
	}
	return stats, nil
}

type BookingListQuery struct {
	Status string
	Search string
	Page   model.Pagination
}

// List filters by status ("all" or empty for every status) and free text.
func (s *BookingService) List(ctx context.Context, q BookingListQuery) (model.Page[model.Booking], error) {
	filter := model.BookingFilter{Search: q.Search, Page: q.Page}
	if q.Status != "" && q.Status != "all" {
		st, ok := model.ParseBookingStatus(q.Status)
		if !ok {
			return model.Page[model.Booking]{}, common.BadRequest("Invalid status filter")
		}
		filter.Status = st
	}

	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return model.Page[model.Booking]{}, fmt.Errorf("failed to list bookings: %w", err)
	}
	return model.NewPage(bookings, total, q.Page), nil
}

func (s *BookingService) Get(ctx context.Context, id int64) (*model.Booking, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(MsgBookingNotFound)
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return b, nil
}

// UpdateStatus moves a booking to upcoming, ongoing or completed. Cancelling
// goes through Cancel.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status string) (*model.Booking, error) {
	st, ok := model.ParseBookingStatus(status)
	if !ok || st == model.BookingCancelled {
		return nil, common.BadRequest(MsgInvalidBookingStatus)
	}
	return s.setStatus(ctx, id, st)
}

func (s *BookingService) Cancel(ctx context.Context, id int64) (*model.Booking, error) {
	return s.setStatus(ctx, id, model.BookingCancelled)
}

func (s *BookingService) setStatus(ctx context.Context, id int64, st model.BookingStatus) (*model.Booking, error) {
	if err := s.repo.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(MsgBookingNotFound)
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	s.log.Info("booking status changed", zap.Int64("booking_id", id), zap.String("status", string(st)))
	return s.Get(ctx, id)
}
