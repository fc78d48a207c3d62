package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/config"
)

// clockSkewTolerance allows for small clock differences between the token
// issuer and validator.
const clockSkewTolerance = 2 * time.Minute

// jwtCustomClaims extends the registered JWT claims with application claims.
type jwtCustomClaims struct {
	UserID    string `json:"uid"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// hmacJWTService implements JWTService using HMAC-SHA256 signing.
type hmacJWTService struct {
	secret               []byte
	tokenLifetime        time.Duration
	refreshTokenLifetime time.Duration
	timeFunc             func() time.Time
}

// Compile-time check that hmacJWTService satisfies JWTService.
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a JWTService from the auth configuration.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters")
	}

	return &hmacJWTService{
		secret:               []byte(cfg.JWTSecret),
		tokenLifetime:        time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		refreshTokenLifetime: time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
		timeFunc:             time.Now,
	}, nil
}

func (s *hmacJWTService) GenerateToken(_ context.Context, userID uuid.UUID) (string, error) {
	return s.generate(userID, TokenTypeAccess, s.tokenLifetime)
}

func (s *hmacJWTService) GenerateRefreshToken(_ context.Context, userID uuid.UUID) (string, error) {
	return s.generate(userID, TokenTypeRefresh, s.refreshTokenLifetime)
}

func (s *hmacJWTService) generate(userID uuid.UUID, tokenType string, lifetime time.Duration) (string, error) {
	now := s.timeFunc()
	claims := jwtCustomClaims{
		UserID:    userID.String(),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *hmacJWTService) ValidateToken(_ context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString, ErrInvalidToken, ErrExpiredToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func (s *hmacJWTService) ValidateRefreshToken(_ context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString, ErrInvalidRefreshToken, ErrExpiredRefreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// parse verifies the signature and standard claims of a token and converts
// jwt library errors into the service's sentinel errors.
func (s *hmacJWTService) parse(tokenString string, invalidErr, expiredErr error) (*Claims, error) {
	if tokenString == "" {
		return nil, invalidErr
	}

	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(clockSkewTolerance),
		jwt.WithTimeFunc(s.timeFunc),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, expiredErr
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, invalidErr
		default:
			return nil, invalidErr
		}
	}

	customClaims, ok := parsed.Claims.(*jwtCustomClaims)
	if !ok || !parsed.Valid {
		return nil, invalidErr
	}

	userID, err := uuid.Parse(customClaims.UserID)
	if err != nil {
		return nil, invalidErr
	}

	claims := &Claims{
		UserID:    userID,
		TokenType: customClaims.TokenType,
		Subject:   customClaims.Subject,
		ID:        customClaims.ID,
	}
	if customClaims.IssuedAt != nil {
		claims.IssuedAt = customClaims.IssuedAt.Time
	}
	if customClaims.ExpiresAt != nil {
		claims.ExpiresAt = customClaims.ExpiresAt.Time
	}
	return claims, nil
}
