package fibre

// std is the store behind the package-level functions.
var std *Store

// Init initializes the default store, registering the calling goroutine as
// its main fibre. See New. It is fatal to call Init while the default store
// is running, though it may be initialized again after Finish.
func Init(alloc Allocator, stackSize int, opts ...Option) error {
	if std.Running() {
		std.fatal(opInit, ErrAlreadyInitialized, "default store is running")
	}
	s, err := New(alloc, stackSize, opts...)
	if err != nil {
		return err
	}
	std = s
	return nil
}

// Default returns the default store, or nil if Init has never been called.
func Default() *Store { return std }

// Go calls Store.Go on the default store.
func Go(entry func()) { std.Go(entry) }

// GoPriority calls Store.GoPriority on the default store.
func GoPriority(priority Priority, entry func()) { std.GoPriority(priority, entry) }

// Yield calls Store.Yield on the default store.
func Yield() bool { return std.Yield() }

// Return calls Store.Return on the default store.
func Return() { std.Return() }

// Finish calls Store.Finish on the default store.
func Finish() { std.Finish() }

// CurrentID calls Store.CurrentID on the default store.
func CurrentID() ID { return std.CurrentID() }
