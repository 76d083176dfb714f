package fibre

import (
	"unsafe"
)

// block is a batch of fibre slots, sized to fit a page. Blocks are chained
// off the Store, and freed only by Finish.
type block struct {
	next  *block
	mem   []byte
	slots []fibre
}

// blockGeometry is the slot layout of every block of a Store.
type blockGeometry struct {
	pageSize int
	slots    int
	bytes    int
}

const (
	blockHeaderSize = int(unsafe.Sizeof(block{}))
	fibreSlotSize   = int(unsafe.Sizeof(fibre{}))
)

// computeBlockGeometry fits as many slots as possible, after the header,
// into pageSize. It is invalid if that is zero slots.
func computeBlockGeometry(pageSize int) (g blockGeometry, ok bool) {
	g.pageSize = pageSize
	if pageSize > blockHeaderSize {
		g.slots = (pageSize - blockHeaderSize) / fibreSlotSize
	}
	g.bytes = blockHeaderSize + g.slots*fibreSlotSize
	return g, g.slots > 0 && g.bytes <= pageSize
}

// newBlock allocates a block, and assigns IDs to its slots. The slots are
// not linked into any list.
func (s *Store) newBlock() *block {
	mem := s.alloc.Allocate(s.geometry.bytes)
	if mem == nil {
		s.fatal(opGo, ErrAllocFailed, "block allocation failed")
	}
	b := &block{
		next:  s.blocks,
		mem:   mem,
		slots: make([]fibre, s.geometry.slots),
	}
	for i := range b.slots {
		s.lastID++
		b.slots[i].id = s.lastID
	}
	s.blocks = b
	s.stats.Blocks++
	s.logger.Debug().
		Int("slots", len(b.slots)).
		Uint64("first", uint64(b.slots[0].id)).
		Log("allocated block")
	return b
}
