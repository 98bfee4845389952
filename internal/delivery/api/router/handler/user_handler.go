package handler

import (
	"log/slog"
	"net/http"

	"ferremas/internal/delivery/api/response"
	"ferremas/internal/errors"
	"ferremas/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const tokenTypeBearer = "Bearer"

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
	Logger *slog.Logger
}

// UserHandler serves registration, login and session endpoints.
type UserHandler struct {
	userUC usecase.UserUsecase
	logger *slog.Logger
}

func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		userUC: params.UserUC,
		logger: params.Logger,
	}
}

type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=150"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" form:"id_token"`
}

// Register handles POST /auth/register.
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.userUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserResponse(user))
}

// Login handles POST /auth/login.
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.userUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAuthResponse(output))
}

// RefreshToken handles POST /auth/refresh.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	var req RefreshTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	output, err := h.userUC.RefreshToken(c.Request().Context(), &usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAuthResponse(output))
}

// Logout handles POST /auth/logout.
func (h *UserHandler) Logout(c echo.Context) error {
	var req RefreshTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.userUC.Logout(c.Request().Context(), &usecase.LogoutInput{RefreshToken: req.RefreshToken}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Sesión cerrada"})
}

// GoogleLogin handles POST /auth/google with an ID token from Google Identity Services.
func (h *UserHandler) GoogleLogin(c echo.Context) error {
	var req GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Token de Google inválido")
	}

	return h.googleLogin(c, req.IDToken)
}

// GoogleMockLogin handles GET /auth/google/mock, signing in the fixed test identity.
func (h *UserHandler) GoogleMockLogin(c echo.Context) error {
	if !h.userUC.GoogleMockEnabled() {
		return echo.ErrNotFound
	}

	return h.googleLogin(c, "")
}

func (h *UserHandler) googleLogin(c echo.Context, idToken string) error {
	output, err := h.userUC.GoogleLogin(c.Request().Context(), &usecase.GoogleLoginInput{IDToken: idToken})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAuthResponse(output))
}

// Me handles GET /api/me.
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userUC.Profile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserResponse(user))
}

func toAuthResponse(output *usecase.AuthOutput) *AuthResponse {
	return &AuthResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		TokenType:    tokenTypeBearer,
		User:         toUserResponse(output.User),
	}
}
