package diag

import (
	"io"
	"os"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

type (
	// Backend constructs root loggers, one per distinct subsystem level.
	Backend interface {
		NewLogger(level logiface.Level) *logiface.Logger[logiface.Event]
	}

	// BackendFunc implements Backend.
	BackendFunc func(level logiface.Level) *logiface.Logger[logiface.Event]

	// BackendOption configures behavior common to all backends.
	BackendOption func(c *backendConfig)

	backendConfig struct {
		rates map[time.Duration]int
	}
)

// NewLogger implements Backend.
func (x BackendFunc) NewLogger(level logiface.Level) *logiface.Logger[logiface.Event] {
	return x(level)
}

// WithRateLimits enables category (caller) based rate limiting, for events
// that opt in, via logiface.Builder.Limit. Each map entry is a window, and
// the maximum number of events, per call site, within that window.
func WithRateLimits(rates map[time.Duration]int) BackendOption {
	return func(c *backendConfig) {
		c.rates = rates
	}
}

func resolveBackendConfig(options []BackendOption) (c backendConfig) {
	for _, o := range options {
		if o != nil {
			o(&c)
		}
	}
	return
}

func backendOptions[E logiface.Event](c backendConfig, level logiface.Level) []logiface.Option[E] {
	var factory logiface.LoggerFactory[E]
	options := []logiface.Option[E]{factory.WithLevel(level)}
	if len(c.rates) != 0 {
		options = append(options, factory.WithCategoryRateLimits(c.rates))
	}
	return options
}

// Discard returns a Backend that produces nil loggers, which log nothing.
func Discard() Backend {
	return BackendFunc(func(logiface.Level) *logiface.Logger[logiface.Event] { return nil })
}

// Stumpy returns a Backend writing newline-delimited JSON, using
// [github.com/joeycumines/stumpy]. A nil writer defaults to os.Stderr.
func Stumpy(w io.Writer, stumpyOptions []stumpy.Option, options ...BackendOption) Backend {
	if w == nil {
		w = os.Stderr
	}
	c := resolveBackendConfig(options)
	return BackendFunc(func(level logiface.Level) *logiface.Logger[logiface.Event] {
		return stumpy.L.New(append(
			backendOptions[*stumpy.Event](c, level),
			stumpy.L.WithStumpy(append([]stumpy.Option{stumpy.WithWriter(w)}, stumpyOptions...)...),
		)...).Logger()
	})
}
