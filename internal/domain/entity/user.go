// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is a store customer or administrator account.
type User struct {
	ID        uint
	Username  string
	Email     string
	IsActive  bool
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Roles derives the authorization roles carried in access tokens.
func (u *User) Roles() Roles {
	roles := Roles{RoleCustomer}
	if u.IsAdmin {
		roles = append(roles, RoleAdmin)
	}

	return roles
}
