package fibre

import (
	"bytes"
	"strings"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAllocator(t *testing.T, alloc Allocator) {
	t.Helper()

	assert.Nil(t, alloc.Allocate(0))
	assert.Nil(t, alloc.Allocate(-1))

	for _, size := range []int{1, 100, PageSize(), 64 << 10} {
		buf := alloc.Allocate(size)
		require.Len(t, buf, size)
		for i, b := range buf {
			if b != 0 {
				t.Fatalf("byte %d of %d not zeroed", i, size)
			}
		}
		buf[0], buf[size-1] = 0xff, 0xff
		alloc.Deallocate(buf)
	}
}

func TestSysAllocator(t *testing.T) {
	testAllocator(t, NewSysAllocator(nil))
}

func TestMmapAllocator(t *testing.T) {
	testAllocator(t, NewMmapAllocator(nil))
}

func TestMmapAllocator_store(t *testing.T) {
	s := newTestStore(t, NewMmapAllocator(nil))
	var n int
	for range 3 {
		s.Go(func() {
			s.Yield()
			n++
		})
	}
	s.Return()
	assert.Equal(t, 3, n)
}

func TestAllocator_logging(t *testing.T) {
	for _, tc := range [...]struct {
		subsystem string
		alloc     func(buf *bytes.Buffer) Allocator
	}{
		{subsystemAllocSys, func(buf *bytes.Buffer) Allocator {
			return NewSysAllocator(newBufferRegistry(buf, logiface.LevelDebug))
		}},
		{subsystemAllocMmap, func(buf *bytes.Buffer) Allocator {
			return NewMmapAllocator(newBufferRegistry(buf, logiface.LevelDebug))
		}},
	} {
		t.Run(tc.subsystem, func(t *testing.T) {
			var buf bytes.Buffer
			alloc := tc.alloc(&buf)
			alloc.Deallocate(alloc.Allocate(128))
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 2, buf.String())
			assert.Contains(t, lines[0], `"subsystem":"`+tc.subsystem+`"`)
			assert.Contains(t, lines[0], `"msg":"allocating"`)
			assert.Contains(t, lines[1], `"msg":"deallocating"`)
		})
	}
}

func TestComputeBlockGeometry(t *testing.T) {
	for _, tc := range [...]struct {
		name     string
		pageSize int
		slots    int
		ok       bool
	}{
		{`zero`, 0, 0, false},
		{`header only`, blockHeaderSize, 0, false},
		{`one short`, pageSizeForSlots(1) - 1, 0, false},
		{`one`, pageSizeForSlots(1), 1, true},
		{`forty six`, pageSizeForSlots(46), 46, true},
		{`remainder`, pageSizeForSlots(46) + fibreSlotSize - 1, 46, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g, ok := computeBlockGeometry(tc.pageSize)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.slots, g.slots)
			assert.Equal(t, tc.pageSize, g.pageSize)
			if ok {
				assert.LessOrEqual(t, g.bytes, tc.pageSize)
				assert.Greater(t, g.bytes+fibreSlotSize, tc.pageSize)
			}
		})
	}
}

func TestComputeBlockGeometry_systemPage(t *testing.T) {
	g, ok := computeBlockGeometry(PageSize())
	require.True(t, ok)
	assert.Positive(t, g.slots)
}

func TestStore_newBlock_ids(t *testing.T) {
	s := newTestStore(t, newCountingAllocator(), WithPageSize(pageSizeForSlots(3)))
	var ids []ID
	for range 7 {
		s.Go(func() { ids = append(ids, s.CurrentID()) })
	}
	s.Return()
	assert.Equal(t, []ID{1, 2, 3, 4, 5, 6, 7}, ids)
	assert.Equal(t, uint64(3), s.Stats().Blocks)
}
