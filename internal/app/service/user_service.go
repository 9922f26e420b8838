package service

import (
	"context"
	"errors"
	"fmt"

	"marma_admin/internal/common"
	"marma_admin/internal/domain/model"
	"marma_admin/internal/domain/repository"

	"go.uber.org/zap"
)

const (
	MsgUserNotFound       = "User not found"
	MsgCannotChangeOwn    = "You cannot change your own status"
	MsgCannotDeleteOwn    = "You cannot delete your own account"
	MsgInvalidUserStatus  = "Invalid status. Status must be active or inactive."
	MsgInvalidRoleFilter  = "Invalid role filter"
	MsgInvalidStatusQuery = "Invalid status filter"
)

type UserService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, log: log}
}

type UserListQuery struct {
	Search    string
	Role      string
	Status    string
	SortBy    string
	SortOrder string
	Page      model.Pagination
}

func (s *UserService) List(ctx context.Context, q UserListQuery) (model.Page[model.User], error) {
	filter := model.UserFilter{
		Search:    q.Search,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
		Page:      q.Page,
	}
	if q.Role != "" {
		role, ok := model.ParseRole(q.Role)
		if !ok {
			return model.Page[model.User]{}, common.BadRequest(MsgInvalidRoleFilter)
		}
		filter.Role = role
	}
	if q.Status != "" {
		status := model.UserStatus(q.Status)
		if !status.Valid() {
			return model.Page[model.User]{}, common.BadRequest(MsgInvalidStatusQuery)
		}
		filter.Status = status
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return model.Page[model.User]{}, fmt.Errorf("failed to list users: %w", err)
	}
	return model.NewPage(users, total, q.Page), nil
}

// ChangeStatus activates or deactivates another user's account.
func (s *UserService) ChangeStatus(ctx context.Context, actor model.Principal, id int64, status string) (*model.User, error) {
	if id == actor.ID {
		return nil, common.Forbidden(MsgCannotChangeOwn)
	}
	st := model.UserStatus(status)
	if !st.Valid() {
		return nil, common.BadRequest(MsgInvalidUserStatus)
	}

	if err := s.userRepo.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(MsgUserNotFound)
		}
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	s.log.Info("user status changed",
		zap.Int64("actor_id", actor.ID), zap.Int64("user_id", id), zap.String("status", status))

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound(MsgUserNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor model.Principal, id int64) error {
	if id == actor.ID {
		return common.Forbidden(MsgCannotDeleteOwn)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NotFound(MsgUserNotFound)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.log.Info("user deleted", zap.Int64("actor_id", actor.ID), zap.Int64("user_id", id))
	return nil
}
