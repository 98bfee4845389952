package context

import (
	"ferremas/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

const (
	keyUserID = "user_id"
	keyRoles  = "roles"
)

// SetIdentity stores the authenticated caller on c.
func SetIdentity(c echo.Context, userID uint, roles entity.Roles) {
	c.Set(keyUserID, userID)
	c.Set(keyRoles, roles)
}

// GetUserID returns the authenticated user ID, false when the request is anonymous.
func GetUserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(keyUserID).(uint)

	return id, ok && id != 0
}

// GetRoles returns the roles of the authenticated caller.
func GetRoles(c echo.Context) entity.Roles {
	roles, _ := c.Get(keyRoles).(entity.Roles)

	return roles
}
