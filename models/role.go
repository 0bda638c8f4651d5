package models

import "fmt"

// Role is the closed set of account types. Every authorization branch switches
// over these values; free-form role strings are rejected at the boundary.
type Role string

const (
	RoleBusiness   Role = "business"
	RoleInfluencer Role = "influencer"
	RoleCustomer   Role = "customer"
)

var AllRoles = []Role{RoleBusiness, RoleInfluencer, RoleCustomer}

func (r Role) Valid() bool {
	switch r {
	case RoleBusiness, RoleInfluencer, RoleCustomer:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
