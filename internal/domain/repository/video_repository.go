package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marma_admin/internal/common"
	"marma_admin/internal/domain/model"
)

type VideoRepository interface {
	Create(ctx context.Context, v *model.LearnerVideo) error
	FindByID(ctx context.Context, id int64) (*model.LearnerVideo, error)
	List(ctx context.Context, page model.Pagination) ([]model.LearnerVideo, int, error)
	Update(ctx context.Context, v *model.LearnerVideo) error
	Delete(ctx context.Context, id int64) error
}

type pgVideoRepository struct {
	db *sql.DB
}

func NewPgVideoRepository(db *sql.DB) VideoRepository {
	return &pgVideoRepository{db: db}
}

func (r *pgVideoRepository) Create(ctx context.Context, v *model.LearnerVideo) error {
	query := `INSERT INTO learner_videos (name, duration, video_url) VALUES ($1, $2, $3)
	          RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowContext(ctx, query, v.Name, v.Duration, v.VideoURL).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return fmt.Errorf("pgVideoRepository.Create: %w", err)
	}
	return nil
}

func (r *pgVideoRepository) FindByID(ctx context.Context, id int64) (*model.LearnerVideo, error) {
	query := `SELECT id, name, duration, video_url, created_at, updated_at FROM learner_videos WHERE id = $1`
	v := &model.LearnerVideo{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Name, &v.Duration, &v.VideoURL, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgVideoRepository.FindByID: %w", err)
	}
	return v, nil
}

func (r *pgVideoRepository) List(ctx context.Context, page model.Pagination) ([]model.LearnerVideo, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM learner_videos`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgVideoRepository.List count: %w", err)
	}

	query := `SELECT id, name, duration, video_url, created_at, updated_at FROM learner_videos
	          ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("pgVideoRepository.List query: %w", err)
	}
	defer rows.Close()

	videos := []model.LearnerVideo{}
	for rows.Next() {
		var v model.LearnerVideo
		if err := rows.Scan(&v.ID, &v.Name, &v.Duration, &v.VideoURL, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("pgVideoRepository.List scan: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgVideoRepository.List rows.Err: %w", err)
	}
	return videos, total, nil
}

func (r *pgVideoRepository) Update(ctx context.Context, v *model.LearnerVideo) error {
	query := `UPDATE learner_videos SET name = $1, duration = $2, video_url = $3, updated_at = now()
	          WHERE id = $4 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, v.Name, v.Duration, v.VideoURL, v.ID).Scan(&v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgVideoRepository.Update: %w", err)
	}
	return nil
}

func (r *pgVideoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM learner_videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgVideoRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgVideoRepository.Delete rows: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
