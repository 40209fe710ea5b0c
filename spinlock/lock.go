package spinlock

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is the cache line width assumed for padding.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})

var _ sync.Locker = (*SpinLock)(nil)
