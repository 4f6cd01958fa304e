package retailcheck

import (
	"errors"
	"fmt"
)

// Fatal error kinds. These abort the whole check; everything else degrades
// sections instead of failing. Match with errors.As / errors.Is.

// ErrOdometerRequired rejects identities without a mileage reading.
var ErrOdometerRequired = errors.New("odometer reading miles is required")

// AuthenticationError means provider credentials could not be resolved.
// Nothing downstream can proceed without them.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("provider authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// ConfigurationNotFoundError means the operator has no store configuration,
// so the provider-side account identifier cannot be resolved.
type ConfigurationNotFoundError struct {
	OperatorID string
	Err        error
}

func (e *ConfigurationNotFoundError) Error() string {
	return fmt.Sprintf("no store configuration for operator %q: %v", e.OperatorID, e.Err)
}

func (e *ConfigurationNotFoundError) Unwrap() error { return e.Err }

// NoIdentityError means neither a registration nor a derivative id was
// supplied; there is nothing meaningful to look up or return.
type NoIdentityError struct{}

func (e *NoIdentityError) Error() string {
	return "vehicle identity requires a registration or a derivative id"
}
