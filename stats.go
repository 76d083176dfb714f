package fibre

// Stats are the cumulative counters of a Store, logged by Finish.
type Stats struct {
	// GoCalls counts fibres spawned.
	GoCalls uint64
	// StackAllocs counts stacks reserved from the allocator.
	StackAllocs uint64
	// StackReuses counts fibres spawned onto a retired slot's stack.
	StackReuses uint64
	// Blocks counts blocks of slots allocated.
	Blocks uint64
	// Yields counts yields that selected a fibre, including the caller.
	Yields uint64
	// Switches counts actual context switches.
	Switches uint64
}
