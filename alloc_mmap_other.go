//go:build !unix

package fibre

import (
	"os"

	"github.com/joeycumines/go-fibre/diag"
)

// MmapAllocator falls back to the Go heap on platforms without mmap.
type MmapAllocator struct {
	SysAllocator
}

var _ Allocator = (*MmapAllocator)(nil)

func NewMmapAllocator(registry *diag.Registry) *MmapAllocator {
	return &MmapAllocator{SysAllocator{logger: registry.Logger(subsystemAllocMmap)}}
}

// PageSize returns the system memory page size.
func PageSize() int {
	return os.Getpagesize()
}
