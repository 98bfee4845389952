package repository

import (
	"context"

	"ferremas/internal/domain/entity"
	"ferremas/internal/errors"
)

// ErrAuthNotFound is returned when an authentication method is not found.
var ErrAuthNotFound = errors.New("authentication method not found")

// AuthRepository persists login credentials.
type AuthRepository interface {
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error

	// FindAuthentication retrieves an authentication method by its provider and provider-specific ID.
	FindAuthentication(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error)
}
