package middleware

import (
	"context"
	"errors"
	"net/http"

	"marma_admin/internal/common"
	"marma_admin/internal/common/security"
	"marma_admin/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
)

const (
	MsgTokenMissing = "Access denied, token missing"
	MsgInvalidToken = "Invalid or expired token"
	MsgUserNotFound = "User not found"
	MsgInactiveUser = "Account is inactive. Please contact administrator."
)

type contextKey string

const principalCtxKey contextKey = "principal"

// UserLoader returns the current stored state of a user.
type UserLoader interface {
	Principal(ctx context.Context, userID int64) (*model.User, error)
}

// Authenticator turns the token placed in the context by jwtauth.Verifier into
// a Principal loaded from the store.
type Authenticator struct {
	users UserLoader
	log   *zap.Logger
}

func NewAuthenticator(users UserLoader, log *zap.Logger) *Authenticator {
	return &Authenticator{users: users, log: log}
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if errors.Is(err, jwtauth.ErrNoTokenFound) || (err == nil && token == nil) {
			common.RespondWithError(w, http.StatusUnauthorized, MsgTokenMissing)
			return
		}
		if err != nil {
			a.log.Info("token rejected", zap.Error(err))
			common.RespondWithError(w, http.StatusUnauthorized, MsgInvalidToken)
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			a.log.Info("token claims rejected", zap.Error(err))
			common.RespondWithError(w, http.StatusUnauthorized, MsgInvalidToken)
			return
		}

		user, err := a.users.Principal(r.Context(), userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				common.RespondWithError(w, http.StatusUnauthorized, MsgUserNotFound)
				return
			}
			common.RespondWithServiceError(w, a.log, err)
			return
		}
		if user.Status != model.UserActive {
			common.RespondWithError(w, http.StatusForbidden, MsgInactiveUser)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), user.Principal())))
	})
}

func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(model.Principal)
	return p, ok
}
