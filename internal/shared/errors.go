package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Session errors
	ErrNoSession      = fmt.Errorf("no session available")
	ErrSessionExpired = fmt.Errorf("session expired")

	// Cache errors
	ErrCacheMiss        = fmt.Errorf("cache miss")
	ErrCacheUnavailable = fmt.Errorf("cache unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
