package models

import "time"

// Role distinguishes the shop owner from the mechanics. It is a closed set;
// anything else coming off the wire is rejected at the session boundary.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleMechanic Role = "mechanic"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleMechanic:
		return true
	}
	return false
}

// Label returns the display name for the role.
func (r Role) Label() string {
	switch r {
	case RoleOwner:
		return "Owner"
	case RoleMechanic:
		return "Mechanic"
	}
	return string(r)
}

// User is a staff account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsOwner reports whether the user has the owner role.
func (u *User) IsOwner() bool {
	return u != nil && u.Role == RoleOwner
}
