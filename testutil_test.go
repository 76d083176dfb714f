package fibre

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/joeycumines/go-fibre/diag"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingAllocator wraps SysAllocator, tracking live reservations, and
// failing once limit allocations have been made (if limit is non-zero).
type countingAllocator struct {
	SysAllocator
	live   map[*byte]int
	allocs int
	frees  int
	limit  int
}

func newCountingAllocator() *countingAllocator {
	return &countingAllocator{live: make(map[*byte]int)}
}

func (x *countingAllocator) Allocate(size int) []byte {
	if x.limit != 0 && x.allocs >= x.limit {
		return nil
	}
	buf := x.SysAllocator.Allocate(size)
	if buf != nil {
		x.allocs++
		x.live[&buf[0]] = size
	}
	return buf
}

func (x *countingAllocator) Deallocate(buf []byte) {
	if size, ok := x.live[&buf[0]]; !ok || size != len(buf) {
		panic("deallocate of unknown buffer")
	}
	delete(x.live, &buf[0])
	x.frees++
	x.SysAllocator.Deallocate(buf)
}

func newTestStore(t *testing.T, alloc Allocator, opts ...Option) *Store {
	t.Helper()
	s, err := New(alloc, DefaultStackSize, opts...)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

// requireFatal calls fn, which must panic with a *FatalError wrapping target.
func requireFatal(t *testing.T, target error, fn func()) (fe *FatalError) {
	t.Helper()
	func() {
		defer func() {
			r := recover()
			var ok bool
			fe, ok = r.(*FatalError)
			require.Truef(t, ok, "expected *FatalError, got %T: %v", r, r)
		}()
		fn()
	}()
	require.ErrorIs(t, fe, target)
	return fe
}

// activeCount counts the fibres of the store in StateActive.
func activeCount(s *Store) (n int) {
	if s.main.state == StateActive {
		n++
	}
	for b := s.blocks; b != nil; b = b.next {
		for i := range b.slots {
			if b.slots[i].state == StateActive {
				n++
			}
		}
	}
	return
}

func pageSizeForSlots(n int) int {
	return blockHeaderSize + n*fibreSlotSize
}

func newBufferRegistry(buf *bytes.Buffer, level logiface.Level, options ...diag.BackendOption) *diag.Registry {
	return diag.New(diag.Stumpy(buf, []stumpy.Option{stumpy.WithTimeField(``)}, options...), level)
}

func assertNoGoroutineLeak(t *testing.T, before int) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second*5, time.Millisecond*5)
}
