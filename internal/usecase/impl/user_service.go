// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"ferremas/config"
	deliverycontext "ferremas/internal/delivery/context"
	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/repository"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

const defaultMinPasswordLength = 6

var usernameUnsafe = regexp.MustCompile(`[^a-z0-9._-]+`)

// userService implements the UserUsecase interface.
type userService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	authRepo          repository.AuthRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	googleAuthService service.OAuthAuthService
	validate          *validator.Validate
	minPasswordLength int
	logger            *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	UserRepo          repository.UserRepository
	AuthRepo          repository.AuthRepository
	RefreshTokenRepo  repository.RefreshTokenRepository
	Hasher            service.PasswordHasher
	TokenService      service.TokenService
	GoogleAuthService service.OAuthAuthService
	Config            *config.Config
	Logger            *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	minPasswordLength := defaultMinPasswordLength
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.MinPasswordLength > 0 {
		minPasswordLength = params.Config.Auth.MinPasswordLength
	}

	return &userService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		authRepo:          params.AuthRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		googleAuthService: params.GoogleAuthService,
		validate:          validator.New(),
		minPasswordLength: minPasswordLength,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a customer account with an email credential.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)

	if username == "" || email == "" || input.Password == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("username, email and password are required")
	}
	if err := srv.validate.Var(email, "email"); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid email")
	}
	if len(input.Password) < srv.minPasswordLength {
		return nil, domainerrors.ErrPasswordTooShort
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	// bcrypt is CPU-bound, hash before opening the transaction.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		IsActive: true,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.UserRepo().Create(ctx, user); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		return errors.Wrap(repoFactory.AuthRepo().CreateAuthentication(ctx, &entity.Authentication{
			UserID:         user.ID,
			Provider:       entity.ProviderTypeEmail,
			ProviderUserID: email,
			PasswordHash:   hashedPassword,
		}), "failed to create authentication during registration")
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	srv.log(ctx).Info("User registered", slog.Uint64("user_id", uint64(user.ID)))

	return user, nil
}

// Login verifies an email credential and opens a session.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting user login", slog.String("email", email))

	authRecord, err := srv.authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, email)
	if err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			srv.log(ctx).Warn("Login failed: unknown email", slog.String("email", email))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find authentication")
	}

	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Login failed: password mismatch", slog.String("email", email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	user, err := srv.userRepo.FindByID(ctx, authRecord.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load login user")
	}
	if !user.IsActive {
		srv.log(ctx).Warn("Login failed: inactive user", slog.Uint64("user_id", uint64(user.ID)))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "user is inactive")
	}

	return srv.openSession(ctx, user)
}

// RefreshToken issues a new access token for a stored, unexpired refresh token.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.AuthOutput, error) {
	claims, err := srv.tokenService.ValidateToken(input.RefreshToken)
	if err != nil || claims.Type != service.TokenTypeRefresh {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	stored, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenExpired) {
			return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, err.Error())
		}

		return nil, errors.Wrap(err, "failed to find refresh token")
	}

	user, err := srv.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to load user for refresh")
	}
	if !user.IsActive {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	accessToken, _, err := srv.tokenService.GenerateTokens(user.ID, user.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	srv.log(ctx).Debug("Access token refreshed", slog.Uint64("user_id", uint64(user.ID)))

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: input.RefreshToken,
		User:         user,
	}, nil
}

// Logout deletes the session. Unknown tokens are ignored.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken))
	if err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return errors.Wrap(err, "failed to delete refresh token")
	}

	return nil
}

func (srv *userService) GoogleMockEnabled() bool {
	return srv.googleAuthService.IsMock()
}

// GoogleLogin signs in with a Google identity, linking or creating the account.
func (srv *userService) GoogleLogin(ctx context.Context, input *usecase.GoogleLoginInput) (*usecase.AuthOutput, error) {
	oauthUser, err := srv.googleAuthService.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		srv.log(ctx).Warn("Google token rejected", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrOAuthTokenInvalid, err.Error())
	}
	if !oauthUser.EmailVerified {
		return nil, domainerrors.ErrOAuthFailed.WithDetails("email not verified")
	}

	provider := srv.googleAuthService.GetProvider()
	email := normalizeEmail(oauthUser.Email)

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		authRecord, err := authRepo.FindAuthentication(ctx, provider, oauthUser.ID)
		if err == nil {
			user, err = userRepo.FindByID(ctx, authRecord.UserID)

			return errors.Wrap(err, "failed to load linked user")
		}
		if !errors.Is(err, repository.ErrAuthNotFound) {
			return errors.Wrap(err, "failed to find google authentication")
		}

		user, err = userRepo.FindByEmail(ctx, email)
		if errors.Is(err, repository.ErrUserNotFound) {
			user, err = srv.createGoogleUser(ctx, userRepo, oauthUser, email)
		}
		if err != nil {
			return err
		}

		return errors.Wrap(authRepo.CreateAuthentication(ctx, &entity.Authentication{
			UserID:         user.ID,
			Provider:       provider,
			ProviderUserID: oauthUser.ID,
		}), "failed to link google authentication")
	})
	if err != nil {
		srv.log(ctx).Error("Google login failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute google login transaction")
	}
	if !user.IsActive {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "user is inactive")
	}

	return srv.openSession(ctx, user)
}

func (srv *userService) createGoogleUser(ctx context.Context, userRepo repository.UserRepository, oauthUser *service.OAuthUser, email string) (*entity.User, error) {
	username, err := availableUsername(ctx, userRepo, usernameFrom(oauthUser.Name, email))
	if err != nil {
		return nil, err
	}

	user := &entity.User{Username: username, Email: email, IsActive: true}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create google user")
	}
	srv.log(ctx).Info("Created user from Google sign-in", slog.Uint64("user_id", uint64(user.ID)))

	return user, nil
}

func (srv *userService) Profile(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return user, nil
}

func (srv *userService) openSession(ctx context.Context, user *entity.User) (*usecase.AuthOutput, error) {
	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	err = srv.refreshTokenRepo.CreateRefreshToken(ctx, &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: srv.tokenService.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	srv.log(ctx).Info("User logged in", slog.Uint64("user_id", uint64(user.ID)))

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// usernameFrom derives a username from a display name, falling back to the email local part.
func usernameFrom(name, email string) string {
	base := usernameUnsafe.ReplaceAllString(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ".")), "")
	if base == "" {
		local, _, _ := strings.Cut(email, "@")
		base = usernameUnsafe.ReplaceAllString(local, "")
	}
	if base == "" {
		base = "cliente"
	}

	return base
}

func availableUsername(ctx context.Context, userRepo repository.UserRepository, base string) (string, error) {
	candidate := base
	for range 5 {
		_, err := userRepo.FindByUsername(ctx, candidate)
		if errors.Is(err, repository.ErrUserNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", errors.Wrap(err, "failed to check username")
		}
		candidate = base + "-" + uuid.New().String()[:6]
	}

	return "", domainerrors.ErrUsernameTaken
}
