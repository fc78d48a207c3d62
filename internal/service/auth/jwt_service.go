// Package auth provides authentication services for the application,
// including JWT token generation/validation and password hashing.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token types discriminate access tokens from refresh tokens so that one
// cannot be presented in place of the other.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims represents the claims carried by an authentication token.
type Claims struct {
	// UserID is the unique identifier of the authenticated user
	UserID uuid.UUID

	// TokenType is either TokenTypeAccess or TokenTypeRefresh
	TokenType string

	// Subject is the standard JWT subject claim (the user ID as a string)
	Subject string

	// IssuedAt is when the token was issued
	IssuedAt time.Time

	// ExpiresAt is when the token expires
	ExpiresAt time.Time

	// ID is the unique token identifier (jti claim)
	ID string
}

// JWTService defines the interface for JWT token operations.
type JWTService interface {
	// GenerateToken creates a signed access token for the given user ID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies an access token and returns its claims.
	// Returns ErrInvalidToken, ErrExpiredToken, or ErrWrongTokenType on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token for the given user ID.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken verifies a refresh token and returns its claims.
	// Returns ErrInvalidRefreshToken, ErrExpiredRefreshToken, or
	// ErrWrongTokenType on failure.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}
