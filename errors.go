package fibre

import (
	"errors"

	"github.com/joeycumines/logiface"
)

var (
	// ErrNotInitialized indicates an operation on a store that was never
	// initialized, or has finished.
	ErrNotInitialized = errors.New("fibre: store not initialized")

	// ErrAlreadyInitialized indicates Init was called while the default
	// store is running.
	ErrAlreadyInitialized = errors.New("fibre: store already initialized")

	// ErrNotMainFibre indicates Finish was called from a fibre other than
	// the one that created the store.
	ErrNotMainFibre = errors.New("fibre: not called on the main fibre")

	// ErrResumeEmpty indicates an attempt to resume a fibre that has no
	// entry to run.
	ErrResumeEmpty = errors.New("fibre: resume of empty fibre")

	// ErrAllocFailed indicates the allocator could not satisfy a request.
	ErrAllocFailed = errors.New("fibre: allocation failed")

	// ErrBlockGeometry indicates the page size cannot hold a block with at
	// least one slot.
	ErrBlockGeometry = errors.New("fibre: invalid block geometry")

	// ErrNoRunnable indicates a retiring fibre had nothing to switch to.
	ErrNoRunnable = errors.New("fibre: no runnable fibre")

	// ErrInvalidArgument indicates a nil entry, unknown priority, or similar
	// misuse.
	ErrInvalidArgument = errors.New("fibre: invalid argument")
)

// FatalError is the panic value raised when the scheduler cannot continue.
// It is logged at emergency level before being raised.
//
// Fatal errors raised on a fibre other than main are not recoverable: the
// panic escapes the goroutine carrying that fibre, and terminates the
// process.
type FatalError struct {
	Err error
	Op  string
	Msg string
}

func (e *FatalError) Error() string {
	s := "fibre: " + e.Op
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the sentinel error, for use with [errors.Is].
func (e *FatalError) Unwrap() error {
	return e.Err
}

// fibreExit is the panic value used to unwind a fibre that calls Return.
type fibreExit struct{}

// fatal logs then raises a FatalError. Safe to call on a nil Store.
func (s *Store) fatal(op string, err error, msg string) {
	abort(s.log(), op, err, msg)
}

func abort(logger *logiface.Logger[logiface.Event], op string, err error, msg string) {
	logger.Emerg().
		Str("op", op).
		Err(err).
		Log(msg)
	panic(&FatalError{Op: op, Msg: msg, Err: err})
}
