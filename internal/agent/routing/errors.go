package routing

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRouteFound means the provider could not compute a route between the
	// two points under the requested modes. Recoverable; try again next cycle.
	ErrNoRouteFound = errors.New("no route found between the given coordinates")

	// ErrInvalidCredentials means the provider rejected the app id/code pair.
	// Fatal for the instance; never retried automatically.
	ErrInvalidCredentials = errors.New("invalid routing provider credentials")
)

// apiError is the provider's JSON error envelope.
type apiError struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	Details string `json:"details"`
}

// toError maps the provider's error taxonomy onto our sentinel errors.
func (e *apiError) toError() error {
	switch e.Subtype {
	case "NoRouteFound":
		return fmt.Errorf("%w: %s", ErrNoRouteFound, e.Details)
	case "InvalidCredentials", "InvalidAuthentication":
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, e.Details)
	default:
		return fmt.Errorf("routing provider error %s/%s: %s", e.Type, e.Subtype, e.Details)
	}
}
