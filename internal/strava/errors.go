package strava

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the session's token was rejected or could not be refreshed
	ErrUnauthorized = errors.New("strava: unauthorized")
	// ErrNotFound means the requested resource does not exist or is not visible to the athlete
	ErrNotFound = errors.New("strava: not found")
	// ErrTokenInvalid means the token could not be used or refreshed at all. It always
	// accompanies ErrUnauthorized.
	ErrTokenInvalid = errors.New("strava: token invalid")
)

func tokenError(err error) error {
	return fmt.Errorf("%w: %w: %v", ErrUnauthorized, ErrTokenInvalid, err)
}

// APIError is a non-2xx response other than 401 and 404
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("strava: status %d: %s", e.StatusCode, e.Message)
}
