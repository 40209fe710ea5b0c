//go:build !linux

package memory

import "math"

// Available returns math.MaxUint64: the amount is unknown on this platform.
func Available() uint64 {
	return math.MaxUint64
}
