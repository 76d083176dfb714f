// Package fibre implements cooperative, user space tasks ("fibres"), each
// with its own call stack, multiplexed onto a single thread of control.
//
// A [Store] is created by the goroutine that will act as its main fibre.
// Further fibres are spawned with [Store.Go] or [Store.GoPriority], which
// only make them ready. Fibres run one at a time, and only give up control by
// calling [Store.Yield], by returning from their entry function, or by
// calling [Store.Return]. There is no preemption.
//
// # Scheduling
//
// Ready fibres are resumed strictly by [Priority], and in FIFO order within
// a priority. A fibre that yields goes to the back of its priority's queue.
// Lower priorities may starve.
//
// # Resources
//
// Fibre slots are allocated in blocks sized to the page, and a slot keeps
// its stack reservation when it retires, so a later spawn reuses it without
// allocating. All stacks and blocks are returned to the [Allocator] by
// [Store.Finish], which the main fibre calls directly, or by way of
// [Store.Return], after running every other fibre to completion.
//
// # Errors
//
// Misuse, and exhaustion of the allocator, are fatal: they are logged at
// emergency level, then raised as a panic with a [*FatalError].
//
// # Package functions
//
// [Init], [Go], [Yield], [Return], and friends operate on a default store.
package fibre
