package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of account categories.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleHR      Role = "HR"
	RoleTalent  Role = "TALENT"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleManager, RoleHR, RoleTalent}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleHR, RoleTalent:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole accepts role names case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// ProfileKind returns the profile variant a user of this role owns.
func (r Role) ProfileKind() ProfileKind {
	switch r {
	case RoleTalent:
		return ProfileKindTalent
	case RoleHR:
		return ProfileKindRecruiter
	default:
		return ProfileKindNone
	}
}
