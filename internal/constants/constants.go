package constants

// Context keys
const (
	ContextKeyUser = "current_user"
)

// Pagination
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

// Validation bounds
const (
	MaxTitleLength = 100
	MaxNameLength  = 100
)
