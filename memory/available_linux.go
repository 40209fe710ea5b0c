//go:build linux

package memory

import (
	"math"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

// Available returns the physical memory the OS could hand out without
// swapping, or math.MaxUint64 when unknown.
func Available() uint64 {
	if n, ok := memAvailable(); ok {
		return n
	}

	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return math.MaxUint64
	}
	return (uint64(info.Freeram) + uint64(info.Bufferram)) * uint64(info.Unit)
}

// memAvailable reads MemAvailable from /proc/meminfo (kernel 3.14+).
func memAvailable() (uint64, bool) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return 0, false
	}
	mi, err := fs.Meminfo()
	if err != nil {
		return 0, false
	}
	switch {
	case mi.MemAvailableBytes != nil:
		return *mi.MemAvailableBytes, true
	case mi.MemAvailable != nil:
		return *mi.MemAvailable * 1024, true
	default:
		return 0, false
	}
}
