package middleware

import (
	"strings"

	deliverycontext "ferremas/internal/delivery/context"
	"ferremas/internal/domain/entity"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware authenticates access tokens and enforces roles.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate requires a valid access token and stores the caller identity on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return errors.WithStack(domainerrors.ErrUnauthorized)
		}
		if err := m.identify(c, authHeader); err != nil {
			return err
		}

		return next(c)
	}
}

// OptionalAuthenticate lets anonymous requests through. A bearer token, when sent,
// must still be valid.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return next(c)
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return errors.WithStack(domainerrors.ErrUnauthorized)
		}
		if err := m.identify(c, authHeader); err != nil {
			return err
		}

		return next(c)
	}
}

func (m *AuthMiddleware) identify(c echo.Context, authHeader string) error {
	claims, err := m.tokenSvc.ValidateToken(strings.TrimPrefix(authHeader, bearerPrefix))
	if err != nil {
		return errors.Wrap(domainerrors.ErrUnauthorized, err.Error())
	}
	if claims.Type != service.TokenTypeAccess || claims.UserID == 0 {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	deliverycontext.SetIdentity(c, claims.UserID, entity.RolesFromStrings(claims.Roles))

	return nil
}

// RequireRole must run after Authenticate.
func (m *AuthMiddleware) RequireRole(role entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !deliverycontext.GetRoles(c).Contains(role) {
				return errors.WithStack(domainerrors.ErrForbidden)
			}

			return next(c)
		}
	}
}
