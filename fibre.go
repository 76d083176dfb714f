package fibre

import (
	"strconv"
)

// State is the lifecycle state of a fibre.
//
//	StateEmpty  -> StateReady   [Go]
//	StateReady  -> StateActive  [scheduled by Yield]
//	StateActive -> StateReady   [Yield]
//	StateActive -> StateEmpty   [entry returned, or Return]
//
// StateWaiting is reserved for fibres blocked on external events, and is
// never entered.
type State uint8

const (
	StateEmpty State = iota
	StateActive
	StateWaiting
	StateReady
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "Empty"
	case StateActive:
		return "Active"
	case StateWaiting:
		return "Waiting"
	case StateReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// Priority orders ready fibres. While any fibre of a higher priority is
// ready, no fibre of a lower priority is resumed. There is no aging.
type Priority uint8

const (
	PriorityHigh Priority = iota
	PriorityNormal
	PriorityBackground

	numPriorities
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityNormal:
		return "Normal"
	case PriorityBackground:
		return "Background"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool { return p < numPriorities }

// ID identifies a fibre slot, for diagnostics. The main fibre is always 0,
// other slots are numbered in allocation order, and a slot keeps its ID
// across reuse.
type ID uint64

func (x ID) String() string {
	return "fibre#" + strconv.FormatUint(uint64(x), 10)
}

// fibre is the control block for one slot.
type fibre struct {
	ctx   executionContext
	link  link[*fibre]
	entry func()
	// stack is the allocator reservation attached to this slot, retained
	// across reuse, and released only by Finish. Always nil for main.
	stack    []byte
	id       ID
	state    State
	priority Priority
}

func (x *fibre) linkage() *link[*fibre] { return &x.link }
