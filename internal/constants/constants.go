package constants

// Session / context keys
const (
	SessionCookieName = "body_tracker_session"

	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "username"
	SessionKeyIsAdmin  = "is_admin"

	ContextKeyIdentity = "identity"
)

// Password policy
const (
	MinPasswordLength = 4
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Bootstrap admin account, created on an empty user table.
// The password is a documented weak default and must be changed by the
// operator immediately after first login.
const (
	BootstrapAdminUsername = "admin"
	BootstrapAdminPassword = "admin123"
)
