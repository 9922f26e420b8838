package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marma_admin/internal/common"
	"marma_admin/internal/common/security"
	"marma_admin/internal/common/validate"
	"marma_admin/internal/domain/model"
	"marma_admin/internal/domain/repository"
	"marma_admin/internal/platform/mailer"

	"go.uber.org/zap"
)

const (
	MsgInvalidCredentials = "Invalid email/username or password"
	MsgAccountInactive    = "Account is inactive. Please contact administrator."
	MsgForgotPassword     = "If your email exists in our system, you will receive reset instructions."
	MsgInvalidResetToken  = "Invalid or expired token"
)

type AuthConfig struct {
	ResetTokenTTL time.Duration
	FrontendURL   string
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenIssuer
	mailer   mailer.Mailer
	log      *zap.Logger
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens *security.TokenIssuer,
	m mailer.Mailer,
	log *zap.Logger,
	cfg AuthConfig,
) *AuthService {
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   m,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
}

type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

type LoginUser struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Username *string    `json:"username"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
}

type LoginResponse struct {
	User  LoginUser `json:"user"`
	Token string    `json:"token"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	login := strings.TrimSpace(req.EmailOrUsername)
	if login == "" || req.Password == "" {
		return nil, common.BadRequest("Email/username and password are required")
	}

	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrUnauthorized, MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, common.NewError(common.ErrUnauthorized, MsgInvalidCredentials)
	}
	if user.Status != model.UserActive {
		return nil, common.Forbidden(MsgAccountInactive)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResponse{
		User: LoginUser{
			ID:       user.ID,
			Name:     user.Name,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
		Token: token,
	}, nil
}

// ForgotPassword issues a fresh reset token and mails it. The caller always
// gets the same answer; a token whose email could not be sent is withdrawn.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return common.BadRequest("Email is required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, digest, err := security.NewResetToken()
	if err != nil {
		return err
	}
	expiry := s.now().Add(s.cfg.ResetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, digest, expiry); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := s.cfg.FrontendURL + "/reset-password/" + token
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, link, s.cfg.ResetTokenTTL); err != nil {
		s.log.Warn("password reset email failed, withdrawing token",
			zap.Int64("user_id", user.ID), zap.Error(err))
		if clearErr := s.userRepo.ClearResetToken(ctx, user.ID, digest); clearErr != nil {
			return fmt.Errorf("failed to withdraw undelivered reset token: %w", clearErr)
		}
		return nil
	}

	s.log.Info("password reset email sent", zap.Int64("user_id", user.ID))
	return nil
}

// ResetPassword replaces the password of the user holding token. Unknown and
// expired tokens are reported identically.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return common.BadRequest(MsgInvalidResetToken)
	}
	if password == "" {
		return common.ValidationError("Validation failed", map[string]string{"password": "Password is required"})
	}
	if res := validate.Validate(password, validate.Password); !res.Valid {
		return common.ValidationError("Validation failed", map[string]string{"password": res.Message})
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return common.ValidationError("Validation failed", map[string]string{"password": "Password must be at most 72 bytes long"})
		}
		return err
	}

	id, err := s.userRepo.ResetPassword(ctx, security.HashResetToken(token), s.now(), hash)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.BadRequest(MsgInvalidResetToken)
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}
	s.log.Info("password reset completed", zap.Int64("user_id", id))
	return nil
}

// Principal loads the current state of the user named by a verified token.
func (s *AuthService) Principal(ctx context.Context, userID int64) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
