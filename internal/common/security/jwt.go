package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and verifies HS256 session tokens carrying user_id and role.
type TokenIssuer struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		auth: jwtauth.New("HS256", secret, nil),
		ttl:  ttl,
		now:  time.Now,
	}
}

// JWTAuth exposes the signer for jwtauth.Verifier.
func (t *TokenIssuer) JWTAuth() *jwtauth.JWTAuth {
	return t.auth
}

func (t *TokenIssuer) GenerateToken(userID int64, role string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"user_id": strconv.FormatInt(userID, 10),
		"role":    role,
		"exp":     now.Add(t.ttl).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := t.auth.Encode(claims)
	return tokenString, err
}

func GetUserIDFromClaims(claims map[string]interface{}) (int64, error) {
	raw, ok := claims["user_id"].(string)
	if !ok {
		return 0, errors.New("user_id claim is missing or not a string")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("user_id claim is not a positive integer")
	}
	return id, nil
}
