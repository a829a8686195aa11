package storefront

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionExpired is returned before any request is made when the session is missing or past its expiry
	ErrSessionExpired = errors.New("session expired")

	// ErrUnauthorized matches every 401 response
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetworkError is returned when the API could not be reached
	ErrNetworkError = errors.New("network error")
)

// APIError is a non-2xx response from the API
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Message returns the message to show a user for err
func Message(err error) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrSessionExpired):
		return "Your session has expired, please log in again"
	case errors.Is(err, ErrNetworkError):
		return "The store is temporarily unavailable, please try again"
	default:
		return "Something went wrong, please try again"
	}
}
