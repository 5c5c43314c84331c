package auth

import "slices"

type Role string

const (
	RoleManager  Role = "manager"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleManager || r == RoleCustomer
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
}

// Principal is the authenticated caller carried in the request context.
type Principal struct {
	UserID int64
	Roles  []Role
}

func (p Principal) HasRole(r Role) bool {
	return slices.Contains(p.Roles, r)
}
