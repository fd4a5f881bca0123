package guidedsection

import (
	"errors"
	"fmt"
)

// Sentinel errors for backing-store resolution.
var (
	// ErrOutOfResources indicates no usable backing store exists or the
	// registry is full.
	ErrOutOfResources = errors.New("out of resources")

	// ErrWriteProtected indicates a candidate store did not observe the
	// signature write during its probe.
	ErrWriteProtected = errors.New("store is write protected")
)

// Sentinel errors for dispatch.
var (
	// ErrUnsupported indicates no registered handler matches the section's
	// embedded format GUID.
	ErrUnsupported = errors.New("unsupported section type")

	// ErrInvalidParameter indicates a malformed or truncated section.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// StoreError wraps errors from backing-store access.
type StoreError struct {
	// Store is the name of the candidate store.
	Store string
	// Op is the operation that failed ("probe", "init", "read", "write").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %s: %v", e.Store, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StoreError) Unwrap() error {
	return e.Err
}
