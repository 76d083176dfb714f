package diag

import (
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/sirupsen/logrus"
)

type (
	// LogrusEvent is the logiface.Event implementation used by Logrus.
	LogrusEvent struct {
		Entry *logrus.Entry
		lvl   logiface.Level
		//lint:ignore U1000 embedded for it's methods
		unimplementedEvent
	}

	logrusWriter struct {
		logrus *logrus.Logger
	}

	//lint:ignore U1000 used to embed without exporting
	unimplementedEvent = logiface.UnimplementedEvent
)

var (
	// compile time assertions

	_ logiface.Event                      = (*LogrusEvent)(nil)
	_ logiface.EventFactory[*LogrusEvent]  = (*logrusWriter)(nil)
	_ logiface.Writer[*LogrusEvent]        = (*logrusWriter)(nil)
	_ logiface.EventReleaser[*LogrusEvent] = (*logrusWriter)(nil)

	logrusEventPool = sync.Pool{New: func() any {
		return &LogrusEvent{Entry: &logrus.Entry{
			Data: make(logrus.Fields, 6),
		}}
	}}
)

// Logrus returns a Backend writing via a [github.com/sirupsen/logrus]
// logger. Both the logiface level and the logrus logger's own level apply.
// Will panic if the logger is nil.
func Logrus(logger *logrus.Logger, options ...BackendOption) Backend {
	if logger == nil {
		panic(`diag: nil logrus logger`)
	}
	c := resolveBackendConfig(options)
	w := &logrusWriter{logrus: logger}
	var factory logiface.LoggerFactory[*LogrusEvent]
	return BackendFunc(func(level logiface.Level) *logiface.Logger[logiface.Event] {
		return factory.New(append(
			backendOptions[*LogrusEvent](c, level),
			factory.WithWriter(w),
			factory.WithEventFactory(w),
			factory.WithEventReleaser(w),
		)...).Logger()
	})
}

func (x *LogrusEvent) Level() logiface.Level {
	if x != nil {
		return x.lvl
	}
	return logiface.LevelDisabled
}

func (x *LogrusEvent) AddField(key string, val any) {
	// note: perform logrus.Entry.WithFields later, just prior to logging
	x.Entry.Data[key] = val
}

func (x *LogrusEvent) AddMessage(msg string) bool {
	x.Entry.Message = msg
	return true
}

func (x *LogrusEvent) AddError(err error) bool {
	// consistent with logrus.Entry.WithError
	x.Entry.Data[logrus.ErrorKey] = err
	return true
}

func (x *logrusWriter) NewEvent(level logiface.Level) *LogrusEvent {
	event := logrusEventPool.Get().(*LogrusEvent)
	event.lvl = level
	event.Entry.Logger = x.logrus
	return event
}

func (x *logrusWriter) ReleaseEvent(event *LogrusEvent) {
	clear(event.Entry.Data)
	*event.Entry = logrus.Entry{Data: event.Entry.Data}
	*event = LogrusEvent{Entry: event.Entry}
	logrusEventPool.Put(event)
}

func (x *logrusWriter) Write(event *LogrusEvent) error {
	logrusLevel, ok := toLogrusLevel(event.Level())
	if !ok || !event.Entry.Logger.IsLevelEnabled(logrusLevel) {
		return logiface.ErrDisabled
	}

	fields := event.Entry.Data
	event.Entry.Data = nil
	entry := event.Entry.WithFields(fields)
	event.Entry.Data = fields

	entry.Log(logrusLevel, event.Entry.Message)

	return nil
}

// toLogrusLevel maps logiface.Level to logrus.Level.
//
// Emergency maps to logrus.FatalLevel rather than PanicLevel, since
// logrus.Entry.Log panics at PanicLevel, and callers of this package decide
// for themselves whether to terminate.
func toLogrusLevel(level logiface.Level) (logrus.Level, bool) {
	switch level {
	case logiface.LevelTrace:
		return logrus.TraceLevel, true
	case logiface.LevelDebug:
		return logrus.DebugLevel, true
	case logiface.LevelInformational:
		return logrus.InfoLevel, true
	case logiface.LevelNotice, logiface.LevelWarning:
		return logrus.WarnLevel, true
	case logiface.LevelError, logiface.LevelCritical:
		return logrus.ErrorLevel, true
	case logiface.LevelAlert, logiface.LevelEmergency:
		return logrus.FatalLevel, true
	default:
		return logrus.PanicLevel, false
	}
}
