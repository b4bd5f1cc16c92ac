package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/talekeep/talekeep-backend/internal/pkg/apperr"
	"github.com/talekeep/talekeep-backend/internal/pkg/envutil"
)

// TokenService mints and verifies the HS256 bearer tokens the API
// authenticates with. The subject claim carries the user id.
type TokenService interface {
	Mint(userID uuid.UUID, ttl time.Duration) (string, error)
	Parse(tokenString string) (uuid.UUID, error)
}

type tokenService struct {
	secret []byte
	issuer string
}

func NewTokenService() TokenService {
	return &tokenService{
		secret: []byte(envutil.String("JWT_SECRET_KEY", "defaultsecret")),
		issuer: envutil.String("JWT_ISSUER", "talekeep"),
	}
}

func (s *tokenService) Mint(userID uuid.UUID, ttl time.Duration) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("user id: %w", apperr.ErrInvalidArgument)
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) Parse(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token: %w", apperr.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token subject: %w", apperr.ErrUnauthorized)
	}
	return userID, nil
}
