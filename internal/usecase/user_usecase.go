// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"ferremas/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new customer.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

type RefreshTokenInput struct {
	RefreshToken string
}

type LogoutInput struct {
	RefreshToken string
}

// GoogleLoginInput carries a Google ID token obtained by the storefront.
// It is ignored when Google sign-in runs in mock mode.
type GoogleLoginInput struct {
	IDToken string
}

// --- Output DTOs ---

// AuthOutput returns the session tokens issued to a user.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// UserUsecase defines the interface for account and session operations.
type UserUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*entity.User, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	// RefreshToken issues a new access token; the refresh token is returned unchanged.
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*AuthOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
	GoogleLogin(ctx context.Context, input *GoogleLoginInput) (*AuthOutput, error)
	GoogleMockEnabled() bool
	Profile(ctx context.Context, userID uint) (*entity.User, error)
}
