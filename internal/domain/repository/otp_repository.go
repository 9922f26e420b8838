package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"marma_admin/internal/domain/model"
)

type OTPRepository interface {
	List(ctx context.Context, filter model.OTPFilter) ([]model.OTPLog, int, error)
	Stats(ctx context.Context) (model.OTPStats, error)
}

type pgOTPRepository struct {
	db *sql.DB
}

func NewPgOTPRepository(db *sql.DB) OTPRepository {
	return &pgOTPRepository{db: db}
}

func (r *pgOTPRepository) List(ctx context.Context, filter model.OTPFilter) ([]model.OTPLog, int, error) {
	var where whereBuilder
	if filter.Status != "" {
		where.add("o.status = $%d", string(filter.Status))
	}
	if filter.Purpose != "" {
		where.add("o.purpose = $%d", string(filter.Purpose))
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		where.add("(o.phone ILIKE $%d OR o.purpose ILIKE $%d OR u.name ILIKE $%d)", like, like, like)
	}

	from := " FROM otp_logs o LEFT JOIN users u ON u.id = o.user_id"

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+from+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgOTPRepository.List count: %w", err)
	}

	var query strings.Builder
	query.WriteString("SELECT o.id, o.phone, COALESCE(u.name, 'N/A'), o.purpose, o.status, o.created_at, o.verified_at")
	query.WriteString(from)
	query.WriteString(where.clause())
	query.WriteString(" ORDER BY o.created_at DESC, o.id DESC")
	limit, args := where.limitOffset(filter.Page.Limit, filter.Page.Offset())
	query.WriteString(limit)

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgOTPRepository.List query: %w", err)
	}
	defer rows.Close()

	logs := []model.OTPLog{}
	for rows.Next() {
		var l model.OTPLog
		if err := rows.Scan(&l.ID, &l.Phone, &l.User, &l.Purpose, &l.Status, &l.CreatedAt, &l.VerifiedAt); err != nil {
			return nil, 0, fmt.Errorf("pgOTPRepository.List scan: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgOTPRepository.List rows.Err: %w", err)
	}
	return logs, total, nil
}

func (r *pgOTPRepository) Stats(ctx context.Context) (model.OTPStats, error) {
	query := `SELECT COUNT(*),
	              COUNT(*) FILTER (WHERE status = 'Verified'),
	              COUNT(*) FILTER (WHERE status = 'Expired'),
	              COUNT(*) FILTER (WHERE status = 'Failed')
	          FROM otp_logs`
	var s model.OTPStats
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.Total, &s.Verified, &s.Expired, &s.Failed); err != nil {
		return model.OTPStats{}, fmt.Errorf("pgOTPRepository.Stats: %w", err)
	}
	return s, nil
}
