package services

import "errors"

// ErrorKind distinguishes the two failure classes clients must react to differently.
type ErrorKind int

const (
	// KindRemote covers API errors, malformed responses and transport failures.
	// The session may still be valid; callers can retry or show the message.
	KindRemote ErrorKind = iota

	// KindUnauthorized means the session's credentials are unusable. It is
	// raised only by token refresh, never for resource-API 401/403 responses.
	// Callers should clear the session and force re-authentication.
	KindUnauthorized
)

// ClientError is the tagged error variant returned by [SpotifyClient] operations.
type ClientError struct {
	Kind    ErrorKind
	Message string
}

func (e *ClientError) Error() string {
	return e.Message
}

func remoteError(message string) *ClientError {
	return &ClientError{Kind: KindRemote, Message: message}
}

func unauthorizedError(message string) *ClientError {
	return &ClientError{Kind: KindUnauthorized, Message: message}
}

// IsUnauthorized reports whether err signals unusable session credentials.
func IsUnauthorized(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Kind == KindUnauthorized
}
