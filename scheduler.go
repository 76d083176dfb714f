package fibre

import (
	"fmt"
)

// Go schedules entry to run on a new fibre, at PriorityNormal. It is shorthand
// for GoPriority(PriorityNormal, entry).
func (s *Store) Go(entry func()) {
	s.GoPriority(PriorityNormal, entry)
}

// GoPriority schedules entry to run on a new fibre, with the given priority.
//
// The fibre is made ready, but not run: GoPriority never switches. The slot
// and stack of a previously retired fibre are reused if available, so once
// warmed up, spawning performs no allocation. When entry returns (or calls
// Return), the fibre retires.
func (s *Store) GoPriority(priority Priority, entry func()) {
	s.ensureRunning(opGo)
	if entry == nil {
		s.fatal(opGo, ErrInvalidArgument, "nil entry")
	}
	if !priority.Valid() {
		s.fatal(opGo, ErrInvalidArgument, fmt.Sprintf("unknown priority %d", priority))
	}

	f := s.acquire()
	reused := f.stack != nil
	if reused {
		s.stats.StackReuses++
	} else {
		s.attachStack(f)
	}
	f.entry = entry
	f.priority = priority
	s.enqueue(f)
	s.stats.GoCalls++

	s.logger.Debug().
		Stringer("fibre", f.id).
		Stringer("priority", priority).
		Bool("reused", reused).
		Log("fibre created")
}

func (s *Store) enqueue(f *fibre) {
	f.state = StateReady
	s.ready[f.priority].PushBack(f)
	s.nReady++
}

func (s *Store) dequeue() *fibre {
	for p := range s.ready {
		if f := s.ready[p].PopFront(); f != nil {
			s.nReady--
			return f
		}
	}
	return nil
}

// Yield offers control to the next ready fibre, highest priority first, and
// in FIFO order within a priority. The calling fibre is queued behind any
// other ready fibres of its own priority.
//
// Yield returns false, without switching, if no fibre is ready. Otherwise it
// returns true once the caller is scheduled again, which is immediately, if
// the caller outranks every ready fibre.
func (s *Store) Yield() bool {
	s.ensureRunning(opYield)
	return s.yield()
}

func (s *Store) yield() bool {
	if s.nReady == 0 {
		return false
	}

	cur := s.current
	if cur.state != StateEmpty {
		s.enqueue(cur)
	}
	next := s.dequeue()
	if next.state != StateReady {
		s.fatal(opYield, ErrResumeEmpty, fmt.Sprintf("%s dequeued in state %s", next.id, next.state))
	}
	next.state = StateActive
	s.stats.Yields++

	if next == cur {
		return true
	}

	s.current = next
	s.stats.Switches++
	s.logger.Trace().
		Limit().
		Stringer("from", cur.id).
		Stringer("to", next.id).
		Log("switch")
	switchContext(&cur.ctx, &next.ctx)

	return true
}

// Return ends the calling fibre.
//
// On any fibre but main, Return unwinds the entry function, running its
// deferred calls, and retires the fibre. It never returns.
//
// On the main fibre, Return runs every other fibre to completion, then calls
// Finish, and returns.
func (s *Store) Return() {
	s.ensureRunning(opReturn)
	if s.current != s.main {
		panic(fibreExit{})
	}
	for s.yield() {
	}
	s.Finish()
}

// CurrentID returns the ID of the running fibre, 0 being main.
func (s *Store) CurrentID() ID {
	s.ensureRunning(opCurrentID)
	return s.current.id
}

// Stats returns a snapshot of the store's cumulative counters.
func (s *Store) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return s.stats
}
