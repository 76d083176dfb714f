package diag

import (
	"sync"

	"github.com/joeycumines/logiface"
)

// SubsystemField is the key used to tag events with the subsystem name.
const SubsystemField = `subsystem`

type (
	// Registry is a set of subsystem loggers, sharing a Backend, with a
	// global level, and optional per-subsystem overrides.
	//
	// All methods are safe for concurrent use. A nil *Registry hands out nil
	// loggers, which discard everything.
	Registry struct {
		backend    Backend
		subsystems map[string]logiface.Level
		loggers    map[string]*logiface.Logger[logiface.Event]
		mu         sync.Mutex
		level      logiface.Level
	}
)

// New constructs a Registry, logging at (and above) the given level, using
// the given backend. A nil backend is equivalent to Discard.
func New(backend Backend, level logiface.Level) *Registry {
	if backend == nil {
		backend = Discard()
	}
	return &Registry{
		backend:    backend,
		level:      level,
		subsystems: make(map[string]logiface.Level),
		loggers:    make(map[string]*logiface.Logger[logiface.Event]),
	}
}

// Level returns the global level.
func (x *Registry) Level() logiface.Level {
	if x == nil {
		return logiface.LevelDisabled
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.level
}

// SetLevel changes the global level. Loggers previously returned by
// Registry.Logger are not affected, request new ones.
func (x *Registry) SetLevel(level logiface.Level) {
	if x == nil {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.level = level
	clear(x.loggers)
}

// SetSubsystemLevel overrides the level for a single subsystem.
func (x *Registry) SetSubsystemLevel(subsystem string, level logiface.Level) {
	if x == nil {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.subsystems[subsystem] = level
	delete(x.loggers, subsystem)
}

// SubsystemLevel returns the effective level for the given subsystem.
func (x *Registry) SubsystemLevel(subsystem string) logiface.Level {
	if x == nil {
		return logiface.LevelDisabled
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.subsystemLevel(subsystem)
}

func (x *Registry) subsystemLevel(subsystem string) logiface.Level {
	if level, ok := x.subsystems[subsystem]; ok {
		return level
	}
	return x.level
}

// Logger returns the logger for the given subsystem, which tags each event
// with SubsystemField. The result may be nil, which is valid, and will
// discard all events.
func (x *Registry) Logger(subsystem string) *logiface.Logger[logiface.Event] {
	if x == nil {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if logger, ok := x.loggers[subsystem]; ok {
		return logger
	}

	logger := x.backend.NewLogger(x.subsystemLevel(subsystem)).
		Clone().
		Str(SubsystemField, subsystem).
		Logger()

	x.loggers[subsystem] = logger

	return logger
}
