package fetch

import (
	"errors"
	"fmt"
)

// Failure kinds. Tiers wrap these so the pipeline can tell a transport
// failure from unexpected markup without inspecting messages.
var (
	// ErrNetwork covers transport failures and non-success responses.
	ErrNetwork = errors.New("network error")
	// ErrParse covers markup or payloads with an unexpected shape.
	ErrParse = errors.New("parse error")
	// ErrMissingData covers items lacking required nested fields.
	ErrMissingData = errors.New("missing data")
	// ErrNotSignedIn is returned when the session page carries no user login.
	ErrNotSignedIn = errors.New("not signed in")
)

// StatusError is a non-success HTTP response.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.URL)
}

// Is makes a StatusError match ErrNetwork.
func (e *StatusError) Is(target error) bool {
	return target == ErrNetwork
}
