// Package syncerr classifies sync failures into a small set of kinds that
// callers can act on.
package syncerr

import (
	"fmt"
)

// Kind is the class of a sync failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindTimeout
	KindAuthentication
	KindServer
	KindParse
	KindAPIVersion
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindAuthentication:
		return "authentication"
	case KindServer:
		return "server"
	case KindParse:
		return "parse"
	case KindAPIVersion:
		return "api-version"
	case KindCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Error is a classified sync failure. Cause keeps the original error for
// logs; callers branch on Kind.
type Error struct {
	Kind     Kind
	HTTPCode int // set for KindAuthentication and KindServer
	Cause    error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + " error"
	if e.HTTPCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.HTTPCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether trying again later may succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimeout:
		return true
	case KindServer:
		return e.HTTPCode >= 500
	}
	return false
}

// UserMessage is a short explanation suitable for showing to the user.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindNetwork:
		return "Could not reach the server. Check the URL and your connection."
	case KindTimeout:
		return "The server took too long to respond. Check your connection."
	case KindAuthentication:
		return "The server rejected the login. Check your credentials."
	case KindServer:
		return fmt.Sprintf("The server returned an error (HTTP %d).", e.HTTPCode)
	case KindParse:
		return "The server response could not be read."
	case KindAPIVersion:
		return "No supported hledger-web API version matched. Try setting the API version explicitly."
	case KindCancelled:
		return "Sync cancelled."
	}
	return "Sync failed for an unknown reason."
}

// Network returns a KindNetwork error.
func Network(cause error) *Error { return &Error{Kind: KindNetwork, Cause: cause} }

// Timeout returns a KindTimeout error.
func Timeout(cause error) *Error { return &Error{Kind: KindTimeout, Cause: cause} }

// Authentication returns a KindAuthentication error.
func Authentication(code int, cause error) *Error {
	return &Error{Kind: KindAuthentication, HTTPCode: code, Cause: cause}
}

// Server returns a KindServer error.
func Server(code int, cause error) *Error {
	return &Error{Kind: KindServer, HTTPCode: code, Cause: cause}
}

// Parse returns a KindParse error.
func Parse(cause error) *Error { return &Error{Kind: KindParse, Cause: cause} }

// APIVersion returns a KindAPIVersion error.
func APIVersion(cause error) *Error { return &Error{Kind: KindAPIVersion, Cause: cause} }

// Cancelled returns a KindCancelled error.
func Cancelled(cause error) *Error { return &Error{Kind: KindCancelled, Cause: cause} }

// Unknown returns a KindUnknown error.
func Unknown(cause error) *Error { return &Error{Kind: KindUnknown, Cause: cause} }
