package repository

import (
	"context"
	"database/sql"
	"fmt"

	"marma_admin/internal/domain/model"
)

type RoleRepository interface {
	EnsureRoles(ctx context.Context, roles []model.Role) error
}

type pgRoleRepository struct {
	db *sql.DB
}

func NewPgRoleRepository(db *sql.DB) RoleRepository {
	return &pgRoleRepository{db: db}
}

// EnsureRoles inserts any missing role; existing rows are left alone.
func (r *pgRoleRepository) EnsureRoles(ctx context.Context, roles []model.Role) error {
	query := `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	for _, role := range roles {
		if _, err := r.db.ExecContext(ctx, query, string(role)); err != nil {
			return fmt.Errorf("pgRoleRepository.EnsureRoles %s: %w", role, err)
		}
	}
	return nil
}
