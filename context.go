package fibre

import (
	"runtime"
)

// executionContext is the suspended state of a fibre.
//
// Each stack is backed by a carrier goroutine, parked on resume whenever the
// fibre it belongs to is not Active. The main fibre's context parks the
// goroutine that created the Store. Exactly one goroutine runs at a time, and
// every hand-off happens through resume, so all Store state written before a
// switch is visible after it.
type executionContext struct {
	resume chan struct{}
	// done is closed by the carrier goroutine as it exits
	done chan struct{}
}

func newExecutionContext() executionContext {
	return executionContext{
		resume: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// park blocks until the context is resumed. It reports false if the context
// was closed instead.
func (x *executionContext) park() bool {
	_, ok := <-x.resume
	return ok
}

// stop wakes the parked goroutine for the last time, then waits for it to
// exit. Must not be called on the context of the running fibre, or of main.
func (x *executionContext) stop() {
	if x.resume == nil {
		return
	}
	close(x.resume)
	<-x.done
}

// switchContext transfers control from old to new, returning once some other
// fibre switches back into old. If old is closed while suspended (the Store
// finished), the calling goroutine exits, running its deferred calls.
func switchContext(old, new *executionContext) {
	new.resume <- struct{}{}
	if !old.park() {
		runtime.Goexit()
	}
}
