package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marma_admin/internal/common"
	"marma_admin/internal/domain/model"
	"marma_admin/internal/domain/repository"
	"marma_admin/internal/platform/storage"

	"go.uber.org/zap"
)

const (
	MsgTherapistNotFound      = "Therapist not found"
	MsgTherapistRequired      = "Name, email, phone and specialization are required."
	MsgInvalidTherapistStatus = "Invalid status. Status must be Pending, Approved or Inactive."
	MsgInvalidAvailability    = "Invalid availability. Availability must be Online or Offline."
	MsgInvalidRating          = "Rating must be between 0 and 5."
	MsgInvalidExperience      = "Experience cannot be negative."

	therapistUploadFolder = "therapists"
	recentlyJoinedWindow  = 7 * 24 * time.Hour
)

// TherapistInput carries create and update fields; nil means "not supplied".
type TherapistInput struct {
	Name           *string
	ClinicName     *string
	Email          *string
	Phone          *string
	Specialization *string
	Experience     *int
	Availability   *string
	Rating         *float64
	Status         *string
}

type TherapistService struct {
	repo  repository.TherapistRepository
	store storage.FileStore
	log   *zap.Logger
	now   func() time.Time
}

func NewTherapistService(repo repository.TherapistRepository, store storage.FileStore, log *zap.Logger) *TherapistService {
	return &TherapistService{repo: repo, store: store, log: log, now: time.Now}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// apply copies the supplied fields onto t after checking them.
func (in TherapistInput) apply(t *model.Therapist) error {
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.ClinicName != nil {
		clinic := strings.TrimSpace(*in.ClinicName)
		if clinic == "" {
			t.ClinicName = nil
		} else {
			t.ClinicName = &clinic
		}
	}
	if in.Email != nil {
		t.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		t.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Specialization != nil {
		t.Specialization = strings.TrimSpace(*in.Specialization)
	}
	if in.Experience != nil {
		if *in.Experience < 0 {
			return common.BadRequest(MsgInvalidExperience)
		}
		t.Experience = *in.Experience
	}
	if in.Availability != nil {
		a := model.Availability(*in.Availability)
		if !a.Valid() {
			return common.BadRequest(MsgInvalidAvailability)
		}
		t.Availability = a
	}
	if in.Rating != nil {
		if *in.Rating < 0 || *in.Rating > 5 {
			return common.BadRequest(MsgInvalidRating)
		}
		t.Rating = *in.Rating
	}
	if in.Status != nil {
		st := model.TherapistStatus(*in.Status)
		if !st.Valid() {
			return common.BadRequest(MsgInvalidTherapistStatus)
		}
		t.Status = st
	}
	if t.Name == "" || t.Email == "" || t.Phone == "" || t.Specialization == "" {
		return common.BadRequest(MsgTherapistRequired)
	}
	return nil
}

func (s *TherapistService) Create(ctx context.Context, in TherapistInput, file *Upload) (*model.Therapist, error) {
	if blank(in.Name) || blank(in.Email) || blank(in.Phone) || blank(in.Specialization) {
		return nil, common.BadRequest(MsgTherapistRequired)
	}

	t := &model.Therapist{Availability: model.Offline, Status: model.TherapistPending}
	if err := in.apply(t); err != nil {
		return nil, err
	}

	if file != nil {
		url, err := saveUpload(ctx, s.store, therapistUploadFolder, file)
		if err != nil {
			return nil, fmt.Errorf("failed to store therapist file: %w", err)
		}
		t.File = &url
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if t.File != nil {
			discardUpload(ctx, s.store, s.log, *t.File)
		}
		return nil, fmt.Errorf("failed to create therapist: %w", err)
	}
	s.log.Info("therapist created", zap.Int64("therapist_id", t.ID))
	return t, nil
}

func (s *TherapistService) Get(ctx context.Context, id int64) (*model.Therapist, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(MsgTherapistNotFound)
		}
		return nil, fmt.Errorf("failed to load therapist: %w", err)
	}
	return t, nil
}

type TherapistListQuery struct {
	Status       string
	Availability string
	Search       string
	Page         model.Pagination
}

func (s *TherapistService) List(ctx context.Context, q TherapistListQuery) (model.Page[model.TherapistListItem], error) {
	filter := model.TherapistFilter{Search: q.Search, Page: q.Page}
	if q.Status != "" {
		st := model.TherapistStatus(q.Status)
		if !st.Valid() {
			return model.Page[model.TherapistListItem]{}, common.BadRequest(MsgInvalidTherapistStatus)
		}
		filter.Status = st
	}
	if q.Availability != "" {
		a := model.Availability(q.Availability)
		if !a.Valid() {
			return model.Page[model.TherapistListItem]{}, common.BadRequest(MsgInvalidAvailability)
		}
		filter.Availability = a
	}

	therapists, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return model.Page[model.TherapistListItem]{}, fmt.Errorf("failed to list therapists: %w", err)
	}
	items := make([]model.TherapistListItem, len(therapists))
	for i := range therapists {
		items[i] = therapists[i].ListItem()
	}
	return model.NewPage(items, total, q.Page), nil
}

// Update applies a partial update. A new file replaces the stored one.
func (s *TherapistService) Update(ctx context.Context, id int64, in TherapistInput, file *Upload) (*model.Therapist, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(t); err != nil {
		return nil, err
	}

	var oldFile string
	if file != nil {
		url, err := saveUpload(ctx, s.store, therapistUploadFolder, file)
		if err != nil {
			return nil, fmt.Errorf("failed to store therapist file: %w", err)
		}
		if t.File != nil {
			oldFile = *t.File
		}
		t.File = &url
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if file != nil {
			discardUpload(ctx, s.store, s.log, *t.File)
		}
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(MsgTherapistNotFound)
		}
		return nil, fmt.Errorf("failed to update therapist: %w", err)
	}
	discardUpload(ctx, s.store, s.log, oldFile)
	return t, nil
}

func (s *TherapistService) UpdateStatus(ctx context.Context, id int64, status string) (*model.Therapist, error) {
	st := model.TherapistStatus(status)
	if !st.Valid() {
		return nil, common.BadRequest(MsgInvalidTherapistStatus)
	}
	if err := s.repo.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(MsgTherapistNotFound)
		}
		return nil, fmt.Errorf("failed to update therapist status: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete hides the therapist; the row and its bookings are kept.
func (s *TherapistService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NotFound(MsgTherapistNotFound)
		}
		return fmt.Errorf("failed to delete therapist: %w", err)
	}
	s.log.Info("therapist deleted", zap.Int64("therapist_id", id))
	return nil
}

func (s *TherapistService) Stats(ctx context.Context) (model.TherapistStats, error) {
	stats, err := s.repo.Stats(ctx, s.now().Add(-recentlyJoinedWindow))
	if err != nil {
		return model.TherapistStats{}, fmt.Errorf("failed to load therapist stats: %w", err)
	}
	return stats, nil
}
