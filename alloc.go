package fibre

import (
	"unsafe"

	"github.com/joeycumines/go-fibre/diag"
	"github.com/joeycumines/logiface"
)

// Allocator provides the byte reservations backing fibre stacks and blocks.
type Allocator interface {
	// Allocate returns size zeroed bytes, or nil if the request cannot be
	// satisfied, which the Store treats as fatal.
	Allocate(size int) []byte

	// Deallocate releases a buffer previously returned by Allocate.
	Deallocate(buf []byte)
}

const (
	subsystemFibre     = "fibre"
	subsystemAllocSys  = "alloc_sys"
	subsystemAllocMmap = "alloc_mmap"
)

// SysAllocator allocates from the Go heap.
type SysAllocator struct {
	logger *logiface.Logger[logiface.Event]
}

var _ Allocator = (*SysAllocator)(nil)

// NewSysAllocator returns a heap allocator, logging at debug level under the
// "alloc_sys" subsystem of the registry, which may be nil.
func NewSysAllocator(registry *diag.Registry) *SysAllocator {
	return &SysAllocator{logger: registry.Logger(subsystemAllocSys)}
}

func (x *SysAllocator) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}
	buf := make([]byte, size)
	x.logger.Debug().
		Int("bytes", size).
		Uint64("addr", bufAddr(buf)).
		Log("allocating")
	return buf
}

// Deallocate only logs, the garbage collector reclaims the buffer.
func (x *SysAllocator) Deallocate(buf []byte) {
	x.logger.Debug().
		Int("bytes", len(buf)).
		Uint64("addr", bufAddr(buf)).
		Log("deallocating")
}

func bufAddr(buf []byte) uint64 {
	return uint64(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
}
