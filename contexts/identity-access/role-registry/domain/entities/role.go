package entities

import "time"

// Role is the supply-chain position an identity holds. Exactly one role per
// identity at a time; identities without an assignment default to RoleNone.
type Role string

const (
	RoleNone         Role = "none"
	RoleManufacturer Role = "manufacturer"
	RoleDistributor  Role = "distributor"
	RoleRetailer     Role = "retailer"
)

// ParseRole maps transport input to a known role.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleNone, RoleManufacturer, RoleDistributor, RoleRetailer:
		return Role(raw), true
	default:
		return "", false
	}
}

// Assignment is the current role record for one identity.
type Assignment struct {
	Identity   string
	Role       Role
	AssignedBy string
	UpdatedAt  time.Time
}
