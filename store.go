package fibre

import (
	"fmt"

	"github.com/joeycumines/logiface"
)

const (
	opInit   = "init"
	opGo     = "go"
	opYield  = "yield"
	opReturn = "return"
	opFinish = "finish"

	opCurrentID = "current_id"
)

// Store owns every fibre of one scheduler: the ready queues, the free list
// of retired slots, the block chain, and the allocator.
//
// A Store is not safe for concurrent use. Its methods may only be called
// from the running fibre, that is, the goroutine that created it, or from
// within the entry functions passed to Go.
type Store struct {
	alloc    Allocator
	logger   *logiface.Logger[logiface.Event]
	current  *fibre
	main     *fibre
	blocks   *block
	ready    [numPriorities]list[*fibre]
	free     list[*fibre]
	geometry blockGeometry
	stats    Stats
	// nReady is the total length of ready
	nReady    int
	stackSize int
	lastID    ID
	running   bool
}

// New initializes a Store, registering the calling goroutine as its main
// fibre. Every stack reserves stackSize bytes from alloc.
//
// An error is returned for invalid arguments or options. A page size unable
// to hold a block of at least one slot is fatal.
func New(alloc Allocator, stackSize int, opts ...Option) (*Store, error) {
	if alloc == nil {
		return nil, fmt.Errorf("%w: nil allocator", ErrInvalidArgument)
	}
	if stackSize <= 0 {
		return nil, fmt.Errorf("%w: stack size %d", ErrInvalidArgument, stackSize)
	}
	options, err := resolveStoreOptions(opts)
	if err != nil {
		return nil, err
	}

	s := &Store{
		alloc:     alloc,
		logger:    options.logger,
		stackSize: stackSize,
	}

	geometry, ok := computeBlockGeometry(options.pageSize)
	s.logger.Debug().
		Int("page_size", geometry.pageSize).
		Int("block_bytes", geometry.bytes).
		Int("header_bytes", blockHeaderSize).
		Int("slot_bytes", fibreSlotSize).
		Int("slots", geometry.slots).
		Log("block geometry")
	if !ok {
		s.fatal(opInit, ErrBlockGeometry, fmt.Sprintf("page size %d cannot hold a block", geometry.pageSize))
	}
	s.geometry = geometry

	// main drains the store from the lowest priority, so that every ready
	// fibre is ahead of it when it yields
	s.main = &fibre{
		ctx:      newExecutionContext(),
		state:    StateActive,
		priority: PriorityBackground,
	}
	s.current = s.main
	s.running = true

	s.logger.Info().
		Int("stack_size", stackSize).
		Int("slots_per_block", geometry.slots).
		Log("fibre store initialized")

	return s, nil
}

func (s *Store) log() *logiface.Logger[logiface.Event] {
	if s == nil {
		return nil
	}
	return s.logger
}

func (s *Store) ensureRunning(op string) {
	if s == nil || !s.running {
		s.fatal(op, ErrNotInitialized, "store is not running")
	}
}

// acquire returns an Empty slot, most recently retired first, allocating a
// block if there are none.
func (s *Store) acquire() *fibre {
	if s.free.Len() == 0 {
		b := s.newBlock()
		for i := len(b.slots) - 1; i >= 0; i-- {
			s.free.PushFront(&b.slots[i])
		}
	}
	f := s.free.PopFront()
	if f.state != StateEmpty {
		s.fatal(opGo, ErrResumeEmpty, fmt.Sprintf("free list held %s in state %s", f.id, f.state))
	}
	return f
}

// attachStack reserves a stack for the slot, starting the goroutine that
// will carry it. The reservation is kept across reuse of the slot.
func (s *Store) attachStack(f *fibre) {
	stack := s.alloc.Allocate(s.stackSize)
	if stack == nil {
		s.fatal(opGo, ErrAllocFailed, "stack allocation failed")
	}
	f.stack = stack
	f.ctx = newExecutionContext()
	go s.carry(f)
	s.stats.StackAllocs++
}

// carry runs on the goroutine bound to f, for its whole life. Each
// iteration runs one entry, then retires the slot to the free list.
func (s *Store) carry(f *fibre) {
	defer close(f.ctx.done)
	if !f.ctx.park() {
		return
	}
	for {
		s.run(f)
		s.retire(f)
	}
}

func (s *Store) run(f *fibre) {
	entry := f.entry
	f.entry = nil
	if entry == nil {
		s.fatal(opYield, ErrResumeEmpty, fmt.Sprintf("%s has no entry", f.id))
	}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(fibreExit); ok {
				return
			}
			s.logger.Emerg().
				Stringer("fibre", f.id).
				Any("panic", r).
				Log("fibre entry panicked")
			panic(r)
		}
	}()
	entry()
}

// retire returns f to the free list and switches away. It returns only once
// the slot has been reused, and scheduled.
func (s *Store) retire(f *fibre) {
	f.state = StateEmpty
	s.free.PushFront(f)
	s.logger.Debug().
		Stringer("fibre", f.id).
		Log("fibre retired")
	if !s.yield() {
		s.fatal(opReturn, ErrNoRunnable, fmt.Sprintf("%s retired with no fibre ready", f.id))
	}
}

// Finish tears down the store, after which it may not be used. It must be
// called from the main fibre.
//
// Every goroutine carrying a fibre is stopped, one at a time, each being
// waited for before the next is stopped. Fibres that are still ready are
// discarded without being resumed again, though any deferred calls they have
// pending run, in turn, and must not use the store. Every stack and block is
// then returned to the allocator.
func (s *Store) Finish() {
	s.ensureRunning(opFinish)
	if s.current != s.main {
		s.fatal(opFinish, ErrNotMainFibre, fmt.Sprintf("called on %s", s.current.id))
	}

	if s.nReady != 0 {
		s.logger.Warning().
			Int("count", s.nReady).
			Log("discarding ready fibres")
		for p := range s.ready {
			for f := range s.ready[p].All {
				s.logger.Debug().
					Stringer("fibre", f.id).
					Stringer("priority", f.priority).
					Log("discarding fibre")
			}
		}
	}
	for p := range s.ready {
		for s.ready[p].PopFront() != nil {
		}
	}
	s.nReady = 0
	s.running = false

	for b := s.blocks; b != nil; b = b.next {
		for i := range b.slots {
			b.slots[i].ctx.stop()
		}
	}

	var stacks int
	for b := s.blocks; b != nil; b = b.next {
		for i := range b.slots {
			f := &b.slots[i]
			if f.stack != nil {
				s.alloc.Deallocate(f.stack)
				f.stack = nil
				stacks++
			}
		}
		s.alloc.Deallocate(b.mem)
		b.mem = nil
	}
	s.blocks = nil
	s.free = list[*fibre]{}

	s.logger.Info().
		Uint64("go_calls", s.stats.GoCalls).
		Uint64("stack_allocs", s.stats.StackAllocs).
		Uint64("stack_reuses", s.stats.StackReuses).
		Uint64("blocks", s.stats.Blocks).
		Uint64("yields", s.stats.Yields).
		Uint64("switches", s.stats.Switches).
		Int("stacks_freed", stacks).
		Log("fibre store finished")
}

// SlotsPerBlock returns the number of fibre slots each block holds.
func (s *Store) SlotsPerBlock() int {
	return s.geometry.slots
}

// Running reports whether the store has been initialized and not finished.
func (s *Store) Running() bool {
	return s != nil && s.running
}
