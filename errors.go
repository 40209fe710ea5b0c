package memcore

import (
	"fmt"

	"github.com/hupe1980/memcore/memory"
)

var (
	// ErrOutOfMemory is returned when a request cannot be satisfied.
	ErrOutOfMemory = memory.ErrOutOfMemory
	// ErrInvalidSize is returned for negative or overflowing sizes.
	ErrInvalidSize = memory.ErrInvalidSize
	// ErrInvalidAlignment is returned when an alignment is not a power of two.
	ErrInvalidAlignment = memory.ErrInvalidAlignment
	// ErrPointerElement is returned for array element types holding pointers.
	ErrPointerElement = memory.ErrPointerElement
	// ErrMemoryLimitExceeded is wrapped by ErrOutOfMemory when the configured
	// memory limit rejects a request.
	ErrMemoryLimitExceeded = memory.ErrMemoryLimitExceeded
)

// ErrInvalidConfig indicates a configuration field that cannot be used.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidConfig struct {
	Field string
	Value string
	cause error
}

func (e *ErrInvalidConfig) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid config %s=%q: %v", e.Field, e.Value, e.cause)
	}
	return fmt.Sprintf("invalid config %s=%q", e.Field, e.Value)
}

func (e *ErrInvalidConfig) Unwrap() error { return e.cause }
