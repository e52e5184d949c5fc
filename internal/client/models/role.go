// Package models defines the client-side data model of the company admin
// backend: identities, roles, companies, audit records and pages.
package models

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of privilege tiers assigned by the backend.
// The zero value is not a valid role.
type Role int

const (
	RoleUser Role = iota + 1
	RoleAdmin
	RoleSuperAdmin
)

// Roles lists every valid role in ascending privilege.
var Roles = []Role{RoleUser, RoleAdmin, RoleSuperAdmin}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAdmin:
		return "Admin"
	case RoleSuperAdmin:
		return "SuperAdmin"
	default:
		return ""
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r >= RoleUser && r <= RoleSuperAdmin
}

// AtLeast reports whether r grants at least the privilege of other.
func (r Role) AtLeast(other Role) bool {
	return r.Valid() && other.Valid() && r >= other
}

// In reports whether r is a member of set.
func (r Role) In(set ...Role) bool {
	for _, s := range set {
		if r == s {
			return true
		}
	}
	return false
}

// ParseRole maps the backend's role name to a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
