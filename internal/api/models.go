package api

import (
	"github.com/google/uuid"

	"github.com/studyhall/studyhall-api/internal/resources"
)

// Common request/response structures. Deck and card payloads are decoded
// straight into the service input types; the structures here cover the
// remaining endpoints.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GenerateCardsRequest defines the payload for AI-assisted card extraction.
type GenerateCardsRequest struct {
	Text string `json:"text" validate:"required,min=1,max=50000"`
}

// RecordProgressRequest defines the payload for a per-card review result.
// Correct is a pointer so that an explicit false passes validation.
type RecordProgressRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// BrowseResponse describes one step of the resource drill-down: the
// current level, the selections made so far, and either the options to
// choose from or the matching resources at the final level.
type BrowseResponse struct {
	Level       string               `json:"level"`
	Breadcrumbs []string             `json:"breadcrumbs,omitempty"`
	Options     []string             `json:"options,omitempty"`
	Resources   []resources.Resource `json:"resources,omitempty"`
}
