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

type BookingRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, int, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error
	Stats(ctx context.Context) (model.BookingStats, error)
	CountBetween(ctx context.Context, from, to time.Time) (total, completed int, err error)
}

type pgBookingRepository struct {
	db *sql.DB
}

func NewPgBookingRepository(db *sql.DB) BookingRepository {
	return &pgBookingRepository{db: db}
}

const bookingSelect = `SELECT b.id, b.service, b.user_id, b.therapist_id, b.status, b.date, b.time,
	b.payment_status, b.created_at, b.updated_at,
	u.id, u.name, u.email, t.id, t.name, t.email, t.specialization
	FROM bookings b
	JOIN users u ON u.id = b.user_id
	JOIN therapists t ON t.id = b.therapist_id`

func scanBooking(row rowScanner) (*model.Booking, error) {
	b := &model.Booking{User: &model.BookingUser{}, Therapist: &model.BookingTherapist{}}
	err := row.Scan(&b.ID, &b.Service, &b.UserID, &b.TherapistID, &b.Status, &b.Date, &b.Time,
		&b.PaymentStatus, &b.CreatedAt, &b.UpdatedAt,
		&b.User.ID, &b.User.Name, &b.User.Email,
		&b.Therapist.ID, &b.Therapist.Name, &b.Therapist.Email, &b.Therapist.Specialization)
	return b, err
}

func (r *pgBookingRepository) FindByID(ctx context.Context, id int64) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, bookingSelect+" WHERE b.id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgBookingRepository.FindByID: %w", err)
	}
	return b, nil
}

func (r *pgBookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]model.Booking, int, error) {
	var where whereBuilder
	if filter.Status != "" {
		where.add("b.status = $%d", string(filter.Status))
	}
	if filter.Search != "" {
		like := likePattern(filter.Search)
		where.add("(b.service ILIKE $%d OR b.payment_status ILIKE $%d)", like, like)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM bookings b
	    JOIN users u ON u.id = b.user_id
	    JOIN therapists t ON t.id = b.therapist_id` + where.clause()
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgBookingRepository.List count: %w", err)
	}

	var query strings.Builder
	query.WriteString(bookingSelect)
	query.WriteString(where.clause())
	query.WriteString(" ORDER BY b.date DESC, b.id DESC")
	limit, args := where.limitOffset(filter.Page.Limit, filter.Page.Offset())
	query.WriteString(limit)

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgBookingRepository.List query: %w", err)
	}
	defer rows.Close()

	bookings := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgBookingRepository.List scan: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgBookingRepository.List rows.Err: %w", err)
	}
	return bookings, total, nil
}

func (r *pgBookingRepository) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("pgBookingRepository.UpdateStatus: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgBookingRepository.UpdateStatus rows: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgBookingRepository) Stats(ctx context.Context) (model.BookingStats, error) {
	query := `SELECT COUNT(*),
	              COUNT(*) FILTER (WHERE status = 'upcoming'),
	              COUNT(*) FILTER (WHERE status = 'ongoing'),
	              COUNT(*) FILTER (WHERE status = 'completed'),
	              COUNT(*) FILTER (WHERE status = 'cancelled')
	          FROM bookings`
	var s model.BookingStats
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.All, &s.Upcoming, &s.Ongoing, &s.Completed, &s.Cancelled); err != nil {
		return model.BookingStats{}, fmt.Errorf("pgBookingRepository.Stats: %w", err)
	}
	return s, nil
}

// CountBetween counts bookings dated in [from, to) and how many of them are completed.
func (r *pgBookingRepository) CountBetween(ctx context.Context, from, to time.Time) (int, int, error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'completed')
	          FROM bookings WHERE date >= $1 AND date < $2`
	var total, completed int
	if err := r.db.QueryRowContext(ctx, query, from, to).Scan(&total, &completed); err != nil {
		return 0, 0, fmt.Errorf("pgBookingRepository.CountBetween: %w", err)
	}
	return total, completed, nil
}
