package service

import (
	"context"
	"errors"
	"fmt"

	"marma_admin/internal/common"
	"marma_admin/internal/common/security"
	"marma_admin/internal/domain/model"
	"marma_admin/internal/domain/repository"

	"go.uber.org/zap"
)

type AdminSeed struct {
	Username string
	Email    string
	Password string
	Name     string
}

// Seeder creates the fixed roles and a first administrator. Running it again is a no-op.
type Seeder struct {
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
	admin    AdminSeed
	log      *zap.Logger
}

func NewSeeder(roleRepo repository.RoleRepository, userRepo repository.UserRepository, admin AdminSeed, log *zap.Logger) *Seeder {
	return &Seeder{roleRepo: roleRepo, userRepo: userRepo, admin: admin, log: log}
}

func (s *Seeder) Seed(ctx context.Context) error {
	if err := s.roleRepo.EnsureRoles(ctx, model.AllRoles); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	admins, err := s.userRepo.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seed count admins: %w", err)
	}
	if admins > 0 {
		return nil
	}

	hash, err := security.HashPassword(s.admin.Password)
	if err != nil {
		return fmt.Errorf("seed hash admin password: %w", err)
	}
	username := s.admin.Username
	admin := &model.User{
		Username:     &username,
		Name:         s.admin.Name,
		Email:        s.admin.Email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Status:       model.UserActive,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, common.ErrConflict) {
			s.log.Warn("default admin credentials already taken by another account",
				zap.String("username", username), zap.String("email", s.admin.Email))
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}
	s.log.Info("default admin created", zap.Int64("user_id", admin.ID), zap.String("username", username))
	return nil
}
