// Copyright (c) 2026 Facilia. All rights reserved.
// Author: platform@facilia.app

package sec

// # User Roles

// UserRole represents the authorization level granted to a mobile account.
type UserRole string

const (
	// Unrestricted tenant administration
	RoleAdmin UserRole = "admin"

	// Can assign and close work orders for their teams
	RoleSupervisor UserRole = "supervisor"

	// Can work assigned orders and update asset records in the field
	RoleTechnician UserRole = "technician"

	// Default role: can browse facilities and raise service requests
	RoleRequester UserRole = "requester"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleSupervisor:
		return 30
	case RoleTechnician:
		return 20
	case RoleRequester:
		return 10
	default:
		return 0
	}
}
