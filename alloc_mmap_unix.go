//go:build unix

package fibre

import (
	"github.com/joeycumines/go-fibre/diag"
	"github.com/joeycumines/logiface"
	"golang.org/x/sys/unix"
)

// MmapAllocator gives every allocation its own anonymous private mapping,
// which the kernel zero-fills. Failure to unmap is fatal.
type MmapAllocator struct {
	logger *logiface.Logger[logiface.Event]
}

var _ Allocator = (*MmapAllocator)(nil)

// NewMmapAllocator returns an mmap backed allocator, logging at debug level
// under the "alloc_mmap" subsystem of the registry, which may be nil.
func NewMmapAllocator(registry *diag.Registry) *MmapAllocator {
	return &MmapAllocator{logger: registry.Logger(subsystemAllocMmap)}
}

func (x *MmapAllocator) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		x.logger.Err().
			Int("bytes", size).
			Err(err).
			Log("mmap failed")
		return nil
	}
	x.logger.Debug().
		Int("bytes", size).
		Uint64("addr", bufAddr(buf)).
		Log("allocating")
	return buf
}

func (x *MmapAllocator) Deallocate(buf []byte) {
	x.logger.Debug().
		Int("bytes", len(buf)).
		Uint64("addr", bufAddr(buf)).
		Log("deallocating")
	if err := unix.Munmap(buf); err != nil {
		abort(x.logger, "munmap", err, "munmap failed")
	}
}

// PageSize returns the system memory page size.
func PageSize() int {
	return unix.Getpagesize()
}
