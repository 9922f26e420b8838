package service

import (
	"context"
	"fmt"

	"marma_admin/internal/domain/model"
	"marma_admin/internal/domain/repository"
)

type OTPService struct {
	repo repository.OTPRepository
}

func NewOTPService(repo repository.OTPRepository) *OTPService {
	return &OTPService{repo: repo}
}

type OTPListQuery struct {
	Filter string
	Search string
	Page   model.Pagination
}

// Logs lists OTP requests. Filter names either a status or a purpose; any
// other value lists everything.
func (s *OTPService) Logs(ctx context.Context, q OTPListQuery) (model.Page[model.OTPLog], error) {
	filter := model.OTPFilter{Search: q.Search, Page: q.Page}
	if st, ok := model.ParseOTPStatus(q.Filter); ok {
		filter.Status = st
	} else if p, ok := model.ParseOTPPurpose(q.Filter); ok {
		filter.Purpose = p
	}

	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return model.Page[model.OTPLog]{}, fmt.Errorf("failed to list otp logs: %w", err)
	}
	return model.NewPage(logs, total, q.Page), nil
}

func (s *OTPService) Stats(ctx context.Context) (model.OTPStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return model.OTPStats{}, fmt.Errorf("failed to load otp stats: %w", err)
	}
	return stats, nil
}
