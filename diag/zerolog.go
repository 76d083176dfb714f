package diag

import (
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

type (
	// ZerologEvent is the logiface.Event implementation used by Zerolog.
	ZerologEvent struct {
		Z   *zerolog.Event
		msg string
		lvl logiface.Level
		//lint:ignore U1000 embedded for it's methods
		unimplementedEvent
	}

	zerologWriter struct {
		z zerolog.Logger
	}
)

var (
	// compile time assertions

	_ logiface.Event                      = (*ZerologEvent)(nil)
	_ logiface.EventFactory[*ZerologEvent] = (*zerologWriter)(nil)
	_ logiface.Writer[*ZerologEvent]       = (*zerologWriter)(nil)
)

// Zerolog returns a Backend writing via a [github.com/rs/zerolog] logger.
// Both the logiface level and the zerolog logger's own level apply.
func Zerolog(logger zerolog.Logger, options ...BackendOption) Backend {
	c := resolveBackendConfig(options)
	w := &zerologWriter{z: logger}
	var factory logiface.LoggerFactory[*ZerologEvent]
	return BackendFunc(func(level logiface.Level) *logiface.Logger[logiface.Event] {
		return factory.New(append(
			backendOptions[*ZerologEvent](c, level),
			factory.WithWriter(w),
			factory.WithEventFactory(w),
		)...).Logger()
	})
}

func (x *ZerologEvent) Level() logiface.Level {
	if x != nil {
		return x.lvl
	}
	return logiface.LevelDisabled
}

func (x *ZerologEvent) AddField(key string, val any) {
	x.Z.Interface(key, val)
}

func (x *ZerologEvent) AddMessage(msg string) bool {
	x.msg = msg
	return true
}

func (x *ZerologEvent) AddError(err error) bool {
	x.Z.Err(err)
	return true
}

func (x *ZerologEvent) AddString(key string, val string) bool {
	x.Z.Str(key, val)
	return true
}

func (x *ZerologEvent) AddInt(key string, val int) bool {
	x.Z.Int(key, val)
	return true
}

func (x *ZerologEvent) AddInt64(key string, val int64) bool {
	x.Z.Int64(key, val)
	return true
}

func (x *ZerologEvent) AddUint64(key string, val uint64) bool {
	x.Z.Uint64(key, val)
	return true
}

func (x *ZerologEvent) AddBool(key string, val bool) bool {
	x.Z.Bool(key, val)
	return true
}

// NewEvent uses zerolog.Logger.WithLevel throughout, which (unlike
// zerolog.Logger.Fatal and zerolog.Logger.Panic) never terminates.
func (x *zerologWriter) NewEvent(level logiface.Level) *ZerologEvent {
	var zl zerolog.Level
	switch level {
	case logiface.LevelTrace:
		zl = zerolog.TraceLevel
	case logiface.LevelDebug:
		zl = zerolog.DebugLevel
	case logiface.LevelInformational:
		zl = zerolog.InfoLevel
	case logiface.LevelNotice, logiface.LevelWarning:
		zl = zerolog.WarnLevel
	case logiface.LevelError, logiface.LevelCritical:
		zl = zerolog.ErrorLevel
	case logiface.LevelAlert:
		zl = zerolog.FatalLevel
	case logiface.LevelEmergency:
		zl = zerolog.PanicLevel
	default:
		// >= 9, translate to numeric levels in zerolog
		// (9 -> -2, 10 -> -3, etc)
		zl = zerolog.Level(7 - level)
	}
	return &ZerologEvent{
		Z:   x.z.WithLevel(zl),
		lvl: level,
	}
}

func (x *zerologWriter) Write(event *ZerologEvent) error {
	if event.Z == nil {
		return logiface.ErrDisabled
	}
	event.Z.Msg(event.msg)
	return nil
}
