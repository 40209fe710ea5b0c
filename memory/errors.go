package memory

import (
	"errors"
	"fmt"

	"github.com/hupe1980/memcore/internal/resource"
)

var (
	// ErrOutOfMemory is returned when the backend or the memory budget cannot
	// satisfy a request. The cause, if any, is wrapped.
	ErrOutOfMemory = errors.New("memory: out of memory")
	// ErrInvalidSize is returned for negative or overflowing sizes.
	ErrInvalidSize = errors.New("memory: invalid size")
	// ErrInvalidAlignment is returned when an alignment is not a power of two
	// or an element type needs more than MaxAlign.
	ErrInvalidAlignment = errors.New("memory: invalid alignment")
	// ErrPointerElement is returned when an array element type holds Go
	// pointers, which the collector cannot see in allocator memory.
	ErrPointerElement = errors.New("memory: array element type contains pointers")
	// ErrMemoryLimitExceeded is wrapped by ErrOutOfMemory when the budget set
	// with WithMemoryLimit rejects a request.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

func outOfMemory(cause error) error {
	if cause == nil {
		return ErrOutOfMemory
	}
	return fmt.Errorf("%w: %w", ErrOutOfMemory, cause)
}
