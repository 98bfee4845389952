package google

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/api/idtoken"

	"ferremas/config"
	"ferremas/internal/domain/entity"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
)

const (
	MockUserID    = "mock-google-user"
	MockUserEmail = "test@test.com"
	MockUserName  = "Test User"
)

// TokenValidator validates a Google-signed ID token for an audience.
type TokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// AuthServiceImpl implements service.OAuthAuthService for Google Sign-In
type AuthServiceImpl struct {
	clientID string
	mock     bool
	validate TokenValidator
	logger   *slog.Logger
}

// NewAuthService creates a new Google AuthService
func NewAuthService(cfg *config.Config, logger *slog.Logger) service.OAuthAuthService {
	s := &AuthServiceImpl{
		validate: idtoken.Validate,
		logger:   logger,
	}
	if cfg.GoogleOAuth != nil {
		s.clientID = cfg.GoogleOAuth.ClientID
		s.mock = cfg.GoogleOAuth.Mock
	}

	return s
}

// VerifyIDToken implements service.OAuthAuthService interface
func (s *AuthServiceImpl) VerifyIDToken(ctx context.Context, idToken string) (*service.OAuthUser, error) {
	if s.mock {
		s.logger.Debug("Google sign-in running in mock mode")

		return &service.OAuthUser{
			ID:            MockUserID,
			Email:         MockUserEmail,
			Name:          MockUserName,
			Provider:      entity.ProviderTypeGoogle,
			EmailVerified: true,
		}, nil
	}

	if strings.TrimSpace(idToken) == "" {
		return nil, errors.New("empty ID token")
	}
	if s.clientID == "" {
		return nil, errors.New("google client id is not configured")
	}

	payload, err := s.validate(ctx, idToken, s.clientID)
	if err != nil {
		s.logger.Warn("Google ID token verification failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "token verification failed")
	}

	if payload.Issuer != "https://accounts.google.com" && payload.Issuer != "accounts.google.com" {
		return nil, errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	oauthUser := &service.OAuthUser{
		ID:            payload.Subject,
		Email:         claimString(payload.Claims, "email"),
		Name:          claimString(payload.Claims, "name"),
		Provider:      entity.ProviderTypeGoogle,
		AvatarURL:     claimString(payload.Claims, "picture"),
		EmailVerified: claimBool(payload.Claims, "email_verified"),
	}
	if oauthUser.Email == "" {
		return nil, errors.New("ID token has no email claim")
	}
	if !oauthUser.EmailVerified {
		return nil, errors.New("email not verified")
	}

	s.logger.Info("Google ID token verified successfully",
		slog.String("userID", oauthUser.ID),
		slog.String("email", oauthUser.Email))

	return oauthUser, nil
}

// GetProvider returns the OAuth provider type
func (s *AuthServiceImpl) GetProvider() entity.ProviderType {
	return entity.ProviderTypeGoogle
}

func (s *AuthServiceImpl) IsMock() bool {
	return s.mock
}

func claimString(claims map[string]any, key string) string {
	v, _ := claims[key].(string)
	return v
}

func claimBool(claims map[string]any, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
