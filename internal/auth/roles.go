// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package auth

// Roles understood by RequireRole. Admin satisfies every requirement.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// IsValidRole reports whether role is a known role.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleViewer
}

// HasRole reports whether a caller holding actual satisfies required.
func HasRole(actual, required string) bool {
	if actual == RoleAdmin {
		return true
	}
	return actual == required
}
