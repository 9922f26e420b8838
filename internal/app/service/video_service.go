package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marma_admin/internal/common"
	"marma_admin/internal/domain/model"
	"marma_admin/internal/domain/repository"
	"marma_admin/internal/platform/storage"

	"go.uber.org/zap"
)

const (
	MsgVideoNotFound = "Video not found"
	MsgVideoRequired = "Name, duration, and video file are required."
	MsgVideoOnly     = "Only video files are allowed."

	videoUploadFolder = "videos"
)

type VideoService struct {
	repo  repository.VideoRepository
	store storage.FileStore
	log   *zap.Logger
}

func NewVideoService(repo repository.VideoRepository, store storage.FileStore, log *zap.Logger) *VideoService {
	return &VideoService{repo: repo, store: store, log: log}
}

func (s *VideoService) Create(ctx context.Context, name, duration string, file *Upload) (*model.LearnerVideo, error) {
	name, duration = strings.TrimSpace(name), strings.TrimSpace(duration)
	if name == "" || duration == "" || file == nil {
		return nil, common.BadRequest(MsgVideoRequired)
	}
	if !file.isVideo() {
		return nil, common.BadRequest(MsgVideoOnly)
	}

	url, err := saveUpload(ctx, s.store, videoUploadFolder, file)
	if err != nil {
		return nil, fmt.Errorf("failed to store video: %w", err)
	}

	v := &model.LearnerVideo{Name: name, Duration: duration, VideoURL: url}
	if err := s.repo.Create(ctx, v); err != nil {
		discardUpload(ctx, s.store, s.log, url)
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	s.log.Info("learner video created", zap.Int64("video_id", v.ID))
	return v, nil
}

func (s *VideoService) List(ctx context.Context, page model.Pagination) (model.Page[model.LearnerVideo], error) {
	videos, total, err := s.repo.List(ctx, page)
	if err != nil {
		return model.Page[model.LearnerVideo]{}, fmt.Errorf("failed to list videos: %w", err)
	}
	return model.NewPage(videos, total, page), nil
}

func (s *VideoService) Get(ctx context.Context, id int64) (*model.LearnerVideo, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(MsgVideoNotFound)
		}
		return nil, fmt.Errorf("failed to load video: %w", err)
	}
	return v, nil
}

// Update changes name and duration when given and swaps the file when a new one is uploaded.
func (s *VideoService) Update(ctx context.Context, id int64, name, duration *string, file *Upload) (*model.LearnerVideo, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil && strings.TrimSpace(*name) != "" {
		v.Name = strings.TrimSpace(*name)
	}
	if duration != nil && strings.TrimSpace(*duration) != "" {
		v.Duration = strings.TrimSpace(*duration)
	}

	oldURL := ""
	if file != nil {
		if !file.isVideo() {
			return nil, common.BadRequest(MsgVideoOnly)
		}
		url, err := saveUpload(ctx, s.store, videoUploadFolder, file)
		if err != nil {
			return nil, fmt.Errorf("failed to store video: %w", err)
		}
		oldURL, v.VideoURL = v.VideoURL, url
	}

	if err := s.repo.Update(ctx, v); err != nil {
		if file != nil {
			discardUpload(ctx, s.store, s.log, v.VideoURL)
		}
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(MsgVideoNotFound)
		}
		return nil, fmt.Errorf("failed to update video: %w", err)
	}
	discardUpload(ctx, s.store, s.log, oldURL)
	return v, nil
}

func (s *VideoService) Delete(ctx context.Context, id int64) error {
	v, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NotFound(MsgVideoNotFound)
		}
		return fmt.Errorf("failed to delete video: %w", err)
	}
	discardUpload(ctx, s.store, s.log, v.VideoURL)
	s.log.Info("learner video deleted", zap.Int64("video_id", id))
	return nil
}
