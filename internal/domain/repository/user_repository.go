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

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByLogin(ctx context.Context, emailOrUsername string) (*model.User, error)
	List(ctx context.Context, filter model.UserFilter) ([]model.User, int, error)
	UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	CountNonAdmin(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role model.Role) (int, error)

	SetResetToken(ctx context.Context, id int64, digest string, expiry time.Time) error
	ClearResetToken(ctx context.Context, id int64, digest string) error
	ResetPassword(ctx context.Context, digest string, now time.Time, passwordHash string) (int64, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `u.id, u.username, u.name, u.email, u.password_hash, r.name, u.status,
	u.last_login, u.reset_token_hash, u.reset_token_expiry, u.created_at, u.updated_at
	FROM users u JOIN roles r ON r.id = u.role_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&u.LastLogin, &u.ResetTokenHash, &u.ResetTokenExpiry, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, name, email, password_hash, role_id, status)
	          VALUES ($1, $2, $3, $4, (SELECT id FROM roles WHERE name = $5), $6)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Name, user.Email, user.PasswordHash, string(user.Role), string(user.Status),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if uniqueViolation(err) {
			return conflict("User with given username or email already exists")
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) findOne(ctx context.Context, op, where string, args ...interface{}) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" WHERE "+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, "FindByID", "u.id = $1", id)
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "FindByEmail", "lower(u.email) = lower($1)", email)
}

// FindByLogin matches the email case-insensitively or the username exactly.
func (r *pgUserRepository) FindByLogin(ctx context.Context, emailOrUsername string) (*model.User, error) {
	return r.findOne(ctx, "FindByLogin",
		"lower(u.email) = lower($1) OR u.username = $1 ORDER BY u.id LIMIT 1", emailOrUsername)
}

var userSortColumns = map[string]string{
	"id":        "u.id",
	"name":      "u.name",
	"email":     "u.email",
	"status":    "u.status",
	"createdAt": "u.created_at",
	"updatedAt": "u.updated_at",
	"lastLogin": "u.last_login",
}

func (r *pgUserRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, int, error) {
	var where whereBuilder
	if filter.Search != "" {
		like := likePattern(filter.Search)
		where.add("(u.name ILIKE $%d OR u.email ILIKE $%d)", like, like)
	}
	if filter.Role != "" {
		where.add("r.name = $%d", string(filter.Role))
	}
	if filter.Status != "" {
		where.add("u.status = $%d", string(filter.Status))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM users u JOIN roles r ON r.id = u.role_id" + where.clause()
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgUserRepository.List count: %w", err)
	}

	column, ok := userSortColumns[filter.SortBy]
	if !ok {
		column = "u.created_at"
	}
	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "ASC") {
		order = "ASC"
	}

	var query strings.Builder
	query.WriteString("SELECT " + userColumns)
	query.WriteString(where.clause())
	query.WriteString(fmt.Sprintf(" ORDER BY %s %s, u.id %s", column, order, order))
	limit, args := where.limitOffset(filter.Page.Limit, filter.Page.Offset())
	query.WriteString(limit)

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgUserRepository.List query: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgUserRepository.List scan: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgUserRepository.List rows.Err: %w", err)
	}
	return users, total, nil
}

func (r *pgUserRepository) execOne(ctx context.Context, op, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserRepository.%s rows: %w", op, err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error {
	return r.execOne(ctx, "UpdateStatus",
		`UPDATE users SET status = $1, updated_at = now() WHERE id = $2`, string(status), id)
}

func (r *pgUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.execOne(ctx, "UpdateLastLogin",
		`UPDATE users SET last_login = $1, updated_at = now() WHERE id = $2`, at, id)
}

func (r *pgUserRepository) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, "Delete", `DELETE FROM users WHERE id = $1`, id)
}

func (r *pgUserRepository) CountNonAdmin(ctx context.Context) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM users u JOIN roles r ON r.id = u.role_id WHERE r.name <> $1`
	if err := r.db.QueryRowContext(ctx, query, string(model.RoleAdmin)).Scan(&n); err != nil {
		return 0, fmt.Errorf("pgUserRepository.CountNonAdmin: %w", err)
	}
	return n, nil
}

func (r *pgUserRepository) CountByRole(ctx context.Context, role model.Role) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM users u JOIN roles r ON r.id = u.role_id WHERE r.name = $1`
	if err := r.db.QueryRowContext(ctx, query, string(role)).Scan(&n); err != nil {
		return 0, fmt.Errorf("pgUserRepository.CountByRole: %w", err)
	}
	return n, nil
}

// SetResetToken replaces any token the user already holds.
func (r *pgUserRepository) SetResetToken(ctx context.Context, id int64, digest string, expiry time.Time) error {
	return r.execOne(ctx, "SetResetToken",
		`UPDATE users SET reset_token_hash = $1, reset_token_expiry = $2, updated_at = now() WHERE id = $3`,
		digest, expiry, id)
}

// ClearResetToken clears the token only while it is still the given one, so a
// newer token issued concurrently survives.
func (r *pgUserRepository) ClearResetToken(ctx context.Context, id int64, digest string) error {
	query := `UPDATE users SET reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = now()
	          WHERE id = $1 AND reset_token_hash = $2`
	if _, err := r.db.ExecContext(ctx, query, id, digest); err != nil {
		return fmt.Errorf("pgUserRepository.ClearResetToken: %w", err)
	}
	return nil
}

// ResetPassword consumes a live token and sets the new hash in one transaction.
// Unknown and expired tokens both yield common.ErrNotFound.
func (r *pgUserRepository) ResetPassword(ctx context.Context, digest string, now time.Time, passwordHash string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("pgUserRepository.ResetPassword begin: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM users WHERE reset_token_hash = $1 AND reset_token_expiry > $2 FOR UPDATE`,
		digest, now,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("pgUserRepository.ResetPassword select: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = now()
		 WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return 0, fmt.Errorf("pgUserRepository.ResetPassword update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("pgUserRepository.ResetPassword commit: %w", err)
	}
	return id, nil
}
