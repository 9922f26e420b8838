package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"marma_admin/internal/common"
	"marma_admin/internal/domain/model"
)

type TherapistRepository interface {
	Create(ctx context.Context, t *model.Therapist) error
	FindByID(ctx context.Context, id int64) (*model.Therapist, error)
	List(ctx context.Context, filter model.TherapistFilter) ([]model.Therapist, int, error)
	Update(ctx context.Context, t *model.Therapist) error
	UpdateStatus(ctx context.Context, id int64, status model.TherapistStatus) error
	SoftDelete(ctx context.Context, id int64) error
	Stats(ctx context.Context, joinedSince time.Time) (model.TherapistStats, error)
}

type pgTherapistRepository struct {
	db *sql.DB
}

func NewPgTherapistRepository(db *sql.DB) TherapistRepository {
	return &pgTherapistRepository{db: db}
}

const therapistColumns = `id, name, clinic_name, email, phone, specialization, experience,
	availability, rating, file, status, created_at, updated_at FROM therapists`

func scanTherapist(row rowScanner) (*model.Therapist, error) {
	t := &model.Therapist{}
	err := row.Scan(&t.ID, &t.Name, &t.ClinicName, &t.Email, &t.Phone, &t.Specialization, &t.Experience,
		&t.Availability, &t.Rating, &t.File, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *pgTherapistRepository) Create(ctx context.Context, t *model.Therapist) error {
	query := `INSERT INTO therapists (name, clinic_name, email, phone, specialization, experience,
	              availability, rating, file, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.ClinicName, t.Email, t.Phone, t.Specialization, t.Experience,
		string(t.Availability), t.Rating, t.File, string(t.Status),
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if uniqueViolation(err) {
			return conflict("A therapist with this email already exists")
		}
		return fmt.Errorf("pgTherapistRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTherapistRepository) FindByID(ctx context.Context, id int64) (*model.Therapist, error) {
	query := "SELECT " + therapistColumns + " WHERE id = $1 AND deleted_at IS NULL"
	t, err := scanTherapist(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTherapistRepository.FindByID: %w", err)
	}
	return t, nil
}

func (r *pgTherapistRepository) List(ctx context.Context, filter model.TherapistFilter) ([]model.Therapist, int, error) {
	var where whereBuilder
	where.add("deleted_at IS NULL")
	if filter.Status != "" {
		where.add("status = $%d", string(filter.Status))
	}
	if filter.Availability != "" {
		where.add("availability = $%d", string(filter.Availability))
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		where.add("(name ILIKE $%d OR clinic_name ILIKE $%d OR email ILIKE $%d OR specialization ILIKE $%d)",
			like, like, like, like)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM therapists"+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgTherapistRepository.List count: %w", err)
	}

	var query strings.Builder
	query.WriteString("SELECT " + therapistColumns)
	query.WriteString(where.clause())
	query.WriteString(" ORDER BY created_at DESC, id DESC")
	limit, args := where.limitOffset(filter.Page.Limit, filter.Page.Offset())
	query.WriteString(limit)

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgTherapistRepository.List query: %w", err)
	}
	defer rows.Close()

	therapists := []model.Therapist{}
	for rows.Next() {
		t, err := scanTherapist(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgTherapistRepository.List scan: %w", err)
		}
		therapists = append(therapists, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgTherapistRepository.List rows.Err: %w", err)
	}
	return therapists, total, nil
}

func (r *pgTherapistRepository) Update(ctx context.Context, t *model.Therapist) error {
	query := `UPDATE therapists SET name = $1, clinic_name = $2, email = $3, phone = $4, specialization = $5,
	              experience = $6, availability = $7, rating = $8, file = $9, status = $10, updated_at = now()
	          WHERE id = $11 AND deleted_at IS NULL
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.ClinicName, t.Email, t.Phone, t.Specialization, t.Experience,
		string(t.Availability), t.Rating, t.File, string(t.Status), t.ID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		if uniqueViolation(err) {
			return conflict("A therapist with this email already exists")
		}
		return fmt.Errorf("pgTherapistRepository.Update: %w", err)
	}
	return nil
}

func (r *pgTherapistRepository) exec(ctx context.Context, op, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("pgTherapistRepository.%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgTherapistRepository.%s rows: %w", op, err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTherapistRepository) UpdateStatus(ctx context.Context, id int64, status model.TherapistStatus) error {
	return r.exec(ctx, "UpdateStatus",
		`UPDATE therapists SET status = $1, updated_at = now() WHERE id = $2 AND deleted_at IS NULL`,
		string(status), id)
}

func (r *pgTherapistRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.exec(ctx, "SoftDelete",
		`UPDATE therapists SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (r *pgTherapistRepository) Stats(ctx context.Context, joinedSince time.Time) (model.TherapistStats, error) {
	query := `SELECT COUNT(*),
	              COUNT(*) FILTER (WHERE status = 'Pending'),
	              COUNT(*) FILTER (WHERE status = 'Approved' AND availability = 'Online'),
	              COUNT(*) FILTER (WHERE availability = 'Offline'),
	              COUNT(*) FILTER (WHERE status = 'Approved'),
	              COUNT(*) FILTER (WHERE created_at >= $1)
	          FROM therapists WHERE deleted_at IS NULL`
	var s model.TherapistStats
	err := r.db.QueryRowContext(ctx, query, joinedSince).Scan(
		&s.Total, &s.Pending, &s.Online, &s.Offline, &s.Approved, &s.RecentlyJoined,
	)
	if err != nil {
		return model.TherapistStats{}, fmt.Errorf("pgTherapistRepository.Stats: %w", err)
	}
	return s, nil
}
