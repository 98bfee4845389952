package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType identifies how a user proves their identity.
type ProviderType string

const (
	ProviderTypeEmail  ProviderType = "email"
	ProviderTypeGoogle ProviderType = "google"
)

// Authentication represents a single method of logging in (a credential).
// A user's email/password is one record, a linked Google account is another.
type Authentication struct {
	ID             uint
	UserID         uint
	Provider       ProviderType
	ProviderUserID string // email for the email provider, Google's 'sub' claim otherwise
	PasswordHash   string // bcrypt hash, only set for the email provider
	CreatedAt      time.Time
}

// RefreshToken represents a long-lived, authorized user session.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uint
	TokenHash string // SHA-256 of the raw token
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session is past its expiry at now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
