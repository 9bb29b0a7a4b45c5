// Package authz holds the authorization policy as pure decision functions.
// Callers consult the policy explicitly before mutating anything; a denial is
// a value, never a panic or an HTTP side effect.
package authz

import "github.com/mtakagi/body-tracker-api/internal/models"

// Identity is the authenticated principal performing an operation. It is
// threaded explicitly through every service call; there is no ambient
// session global.
type Identity struct {
	UserID   uint64
	Username string
	IsAdmin  bool
}

// CanReadUser reports whether a may read targetUserID's profile and
// measurement history.
func CanReadUser(a Identity, targetUserID uint64) bool {
	return a.UserID == targetUserID || a.IsAdmin
}

// CanMutateMeasurement reports whether a may create, read, or delete the
// given measurement.
func CanMutateMeasurement(a Identity, m models.Measurement) bool {
	return a.UserID == m.UserID || a.IsAdmin
}

// CanAdminister reports whether a holds the administrator role.
func CanAdminister(a Identity) bool {
	return a.IsAdmin
}

// CanDeleteUser reports whether a may delete targetUserID's account.
// Admins may delete any account except their own; the self-deletion guard
// holds even when other admins exist.
func CanDeleteUser(a Identity, targetUserID uint64) bool {
	return a.IsAdmin && a.UserID != targetUserID
}
