//go:build !(linux || darwin || freebsd || netbsd || openbsd || windows)

package backend

var (
	_ OwnedHeap = (*System)(nil)
	_ Sizer     = (*System)(nil)
)

// System falls back to the Go heap on targets modernc.org/memory does not
// support.
type System struct {
	*Runtime
}

// NewSystem creates a System backend.
func NewSystem() *System {
	return &System{Runtime: NewRuntime()}
}

// Close is a no-op; Runtime memory is reclaimed by the collector.
func (s *System) Close() error {
	return nil
}
