package impl

import (
	"context"
	"testing"

	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
	"ferremas/internal/infra/auth"
	mocks "ferremas/internal/mocks/service"
	"ferremas/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userServiceFixture struct {
	repos  *testRepos
	google *mocks.MockOAuthAuthService
	tokens service.TokenService
	srv    usecase.UserUsecase
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()

	cfg := testConfig()
	repos := newTestRepos(t)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	google := mocks.NewMockOAuthAuthService(t)

	srv := NewUserService(UserServiceParams{
		TxManager:         repos.tx,
		UserRepo:          repos.users,
		AuthRepo:          repos.auths,
		RefreshTokenRepo:  repos.tokens,
		Hasher:            auth.NewBcryptHasher(cfg),
		TokenService:      tokens,
		GoogleAuthService: google,
		Config:            cfg,
		Logger:            discardLogger(),
	})

	return &userServiceFixture{repos: repos, google: google, tokens: tokens, srv: srv}
}

func (f *userServiceFixture) register(t *testing.T, username, email, password string) *entity.User {
	t.Helper()

	user, err := f.srv.Register(context.Background(), &usecase.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	return user
}

func TestUserService_Register(t *testing.T) {
	f := newUserServiceFixture(t)
	ctx := context.Background()

	user := f.register(t, "juan", "Juan@Ferremas.cl ", "secreto1")
	assert.NotZero(t, user.ID)
	assert.Equal(t, "juan@ferremas.cl", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)

	authRecord, err := f.repos.auths.FindAuthentication(ctx, entity.ProviderTypeEmail, "juan@ferremas.cl")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authRecord.UserID)
	assert.NotEqual(t, "secreto1", authRecord.PasswordHash)
}

func TestUserService_RegisterValidation(t *testing.T) {
	f := newUserServiceFixture(t)
	f.register(t, "juan", "juan@ferremas.cl", "secreto1")

	tests := []struct {
		name  string
		input usecase.RegisterInput
		want  error
	}{
		{"missing fields", usecase.RegisterInput{Username: "ana"}, domainerrors.ErrValidationFailed},
		{"bad email", usecase.RegisterInput{Username: "ana", Email: "not-an-email", Password: "secreto1"}, domainerrors.ErrValidationFailed},
		{"short password", usecase.RegisterInput{Username: "ana", Email: "ana@ferremas.cl", Password: "123"}, domainerrors.ErrPasswordTooShort},
		{"username taken", usecase.RegisterInput{Username: "juan", Email: "otro@ferremas.cl", Password: "secreto1"}, domainerrors.ErrUsernameTaken},
		{"email taken", usecase.RegisterInput{Username: "ana", Email: "JUAN@ferremas.cl", Password: "secreto1"}, domainerrors.ErrUserAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := f.srv.Register(context.Background(), &input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestUserService_LoginIssuesTokens(t *testing.T) {
	f := newUserServiceFixture(t)
	user := f.register(t, "juan", "juan@ferremas.cl", "secreto1")

	out, err := f.srv.Login(context.Background(), &usecase.LoginInput{Email: "JUAN@ferremas.cl", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, out.User.ID)

	claims, err := f.tokens.ValidateToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, service.TokenTypeAccess, claims.Type)
	assert.Equal(t, []string{"customer"}, claims.Roles)

	stored, err := f.repos.tokens.FindRefreshTokenByHash(context.Background(), f.tokens.HashToken(out.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.UserID)
}

func TestUserService_LoginRejects(t *testing.T) {
	f := newUserServiceFixture(t)
	user := f.register(t, "juan", "juan@ferremas.cl", "secreto1")

	_, err := f.srv.Login(context.Background(), &usecase.LoginInput{Email: "nadie@ferremas.cl", Password: "secreto1"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = f.srv.Login(context.Background(), &usecase.LoginInput{Email: "juan@ferremas.cl", Password: "otra-clave"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	user.IsActive = false
	require.NoError(t, f.repos.users.Update(context.Background(), user))
	_, err = f.srv.Login(context.Background(), &usecase.LoginInput{Email: "juan@ferremas.cl", Password: "secreto1"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_RefreshAndLogout(t *testing.T) {
	f := newUserServiceFixture(t)
	ctx := context.Background()
	f.register(t, "juan", "juan@ferremas.cl", "secreto1")

	login, err := f.srv.Login(ctx, &usecase.LoginInput{Email: "juan@ferremas.cl", Password: "secreto1"})
	require.NoError(t, err)

	refreshed, err := f.srv.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, login.RefreshToken, refreshed.RefreshToken)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.srv.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: login.AccessToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid), "access token must not refresh")

	require.NoError(t, f.srv.Logout(ctx, &usecase.LogoutInput{RefreshToken: login.RefreshToken}))
	require.NoError(t, f.srv.Logout(ctx, &usecase.LogoutInput{RefreshToken: login.RefreshToken}))

	_, err = f.srv.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: login.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestUserService_GoogleLoginCreatesUser(t *testing.T) {
	f := newUserServiceFixture(t)
	ctx := context.Background()

	f.google.EXPECT().VerifyIDToken(mock.Anything, "id-token").Return(&service.OAuthUser{
		ID:            "google-123",
		Email:         "test@test.com",
		Name:          "Test User",
		EmailVerified: true,
	}, nil).Twice()
	f.google.EXPECT().GetProvider().Return(entity.ProviderTypeGoogle)

	first, err := f.srv.GoogleLogin(ctx, &usecase.GoogleLoginInput{IDToken: "id-token"})
	require.NoError(t, err)
	assert.Equal(t, "test.user", first.User.Username)
	assert.Equal(t, "test@test.com", first.User.Email)

	second, err := f.srv.GoogleLogin(ctx, &usecase.GoogleLoginInput{IDToken: "id-token"})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestUserService_GoogleLoginLinksExistingEmail(t *testing.T) {
	f := newUserServiceFixture(t)
	ctx := context.Background()
	existing := f.register(t, "juan", "juan@ferremas.cl", "secreto1")

	f.google.EXPECT().VerifyIDToken(mock.Anything, "id-token").Return(&service.OAuthUser{
		ID:            "google-456",
		Email:         "Juan@ferremas.cl",
		Name:          "Juan",
		EmailVerified: true,
	}, nil)
	f.google.EXPECT().GetProvider().Return(entity.ProviderTypeGoogle)

	out, err := f.srv.GoogleLogin(ctx, &usecase.GoogleLoginInput{IDToken: "id-token"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, out.User.ID)

	linked, err := f.repos.auths.FindAuthentication(ctx, entity.ProviderTypeGoogle, "google-456")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, linked.UserID)
}

func TestUserService_GoogleLoginUsernameCollision(t *testing.T) {
	f := newUserServiceFixture(t)
	f.register(t, "test.user", "otro@ferremas.cl", "secreto1")

	f.google.EXPECT().VerifyIDToken(mock.Anything, mock.Anything).Return(&service.OAuthUser{
		ID:            "google-789",
		Email:         "test@test.com",
		Name:          "Test User",
		EmailVerified: true,
	}, nil)
	f.google.EXPECT().GetProvider().Return(entity.ProviderTypeGoogle)

	out, err := f.srv.GoogleLogin(context.Background(), &usecase.GoogleLoginInput{IDToken: "x"})
	require.NoError(t, err)
	assert.NotEqual(t, "test.user", out.User.Username)
	assert.Contains(t, out.User.Username, "test.user-")
}

func TestUserService_GoogleLoginRejectsInvalidToken(t *testing.T) {
	f := newUserServiceFixture(t)

	f.google.EXPECT().VerifyIDToken(mock.Anything, "bad").Return(nil, errors.New("token expired"))

	_, err := f.srv.GoogleLogin(context.Background(), &usecase.GoogleLoginInput{IDToken: "bad"})
	assert.True(t, errors.Is(err, domainerrors.ErrOAuthTokenInvalid))
}

func TestUserService_Profile(t *testing.T) {
	f := newUserServiceFixture(t)
	user := f.register(t, "juan", "juan@ferremas.cl", "secreto1")

	got, err := f.srv.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "juan", got.Username)

	_, err = f.srv.Profile(context.Background(), 9999)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestUsernameFrom(t *testing.T) {
	assert.Equal(t, "test.user", usernameFrom("Test User", "test@test.com"))
	assert.Equal(t, "maria", usernameFrom("", "maria@ferremas.cl"))
	assert.Equal(t, "cliente", usernameFrom("¡¡", "@x"))
}
