package staff

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of staff roles that gate routes and data access.
type Role int

const (
	RoleUnknown Role = iota
	RoleDirector
	RoleSecretary
	RoleNurse
)

// Wire values used by the back office API.
const (
	wireDirector  = "DIRECTEUR"
	wireSecretary = "SECRETAIRE"
	wireNurse     = "INFIRMIER"
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleDirector, RoleSecretary, RoleNurse}

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case wireDirector:
		return RoleDirector, nil
	case wireSecretary:
		return RoleSecretary, nil
	case wireNurse:
		return RoleNurse, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleDirector:
		return wireDirector
	case RoleSecretary:
		return wireSecretary
	case RoleNurse:
		return wireNurse
	case RoleUnknown:
	}
	return "UNKNOWN"
}

func (r Role) Valid() bool {
	return r == RoleDirector || r == RoleSecretary || r == RoleNurse
}

func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal role: invalid role %d", int(r))
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unmarshal role: %w", err)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}
