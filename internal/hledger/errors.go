package hledger

import (
	"fmt"
	"net/http"
)

// NotFoundError is returned when the server answers 404. During API
// negotiation it means the endpoint does not exist on this server.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.URL)
}

// AuthError is returned when the server rejects the credentials.
type AuthError struct {
	URL        string
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication required: %s (HTTP %d)", e.URL, e.StatusCode)
}

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("unexpected response from %s: HTTP %d %s", e.URL, e.StatusCode, status)
}
