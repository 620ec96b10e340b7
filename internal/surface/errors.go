package surface

import (
	"errors"
	"fmt"
)

// Causes reported by the bundled backends.
var (
	ErrInvalidHandle    = errors.New("invalid handle")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// HostAPIError wraps any failure returned by a Display Surface call.
type HostAPIError struct {
	// Op is the name of the failed operation, e.g. "open_window".
	Op  string
	Err error
}

func (e *HostAPIError) Error() string {
	return fmt.Sprintf("surface %s: %v", e.Op, e.Err)
}

func (e *HostAPIError) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *HostAPIError for op. It returns nil for a nil err
// and leaves an existing *HostAPIError untouched.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var hostErr *HostAPIError
	if errors.As(err, &hostErr) {
		return err
	}
	return &HostAPIError{Op: op, Err: err}
}

// IsHostError reports whether err is, or wraps, a *HostAPIError.
func IsHostError(err error) bool {
	var hostErr *HostAPIError
	return errors.As(err, &hostErr)
}
