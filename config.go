package fibre

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joeycumines/go-fibre/diag"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
)

// DefaultStackSize is the stack reservation used if none is configured.
const DefaultStackSize = 64 << 10

type (
	// Config is the file based configuration of a Store, and its
	// diagnostics, decoded from TOML, e.g.
	//
	//	stack_size = 65536
	//	allocator = "mmap"
	//
	//	[log]
	//	level = "info"
	//	backend = "stumpy"
	//
	//	[log.subsystems]
	//	alloc_mmap = "debug"
	//
	//	[[log.rate_limit]]
	//	window = "1s"
	//	events = 20
	Config struct {
		// StackSize defaults to DefaultStackSize.
		StackSize int `toml:"stack_size"`
		// PageSize defaults to the system page size.
		PageSize int `toml:"page_size"`
		// Allocator is one of "mmap" (default) or "sys".
		Allocator string `toml:"allocator"`

		Log LogConfig `toml:"log"`
	}

	LogConfig struct {
		// Level is a syslog level keyword, see diag.ParseLevel. Defaults to
		// "info".
		Level string `toml:"level"`
		// Backend is one of "stumpy" (default), "logrus", "zerolog",
		// "console" (zerolog, human readable), or "discard".
		Backend string `toml:"backend"`
		// Subsystems maps subsystem names to level overrides.
		Subsystems map[string]string `toml:"subsystems"`
		// RateLimits applies to rate limited events, the per-switch trace
		// logs in particular.
		RateLimits []RateLimit `toml:"rate_limit"`
	}

	RateLimit struct {
		Window time.Duration `toml:"window"`
		Events int           `toml:"events"`
	}

	// Setup is the result of applying a Config.
	Setup struct {
		Allocator   Allocator
		Diagnostics *diag.Registry
		Options     []Option
		StackSize   int
	}
)

// DefaultConfig returns the configuration used for any unset fields.
func DefaultConfig() Config {
	return Config{
		StackSize: DefaultStackSize,
		Allocator: "mmap",
		Log: LogConfig{
			Level:   "info",
			Backend: "stumpy",
		},
	}
}

// LoadConfig reads a TOML config file. See DecodeConfig.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fibre: load config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig decodes TOML over DefaultConfig, then validates the result.
// Unknown keys are rejected.
func DecodeConfig(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return nil, fmt.Errorf("fibre: decode config: %w", err)
	}
	if keys := md.Undecoded(); len(keys) != 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return nil, fmt.Errorf("fibre: decode config: unknown keys: %s", strings.Join(names, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every field, without side effects.
func (c *Config) Validate() error {
	var errs []error
	if c.StackSize <= 0 {
		errs = append(errs, fmt.Errorf("stack_size must be positive, got %d", c.StackSize))
	}
	if c.PageSize < 0 {
		errs = append(errs, fmt.Errorf("page_size must not be negative, got %d", c.PageSize))
	}
	switch c.Allocator {
	case "mmap", "sys":
	default:
		errs = append(errs, fmt.Errorf("unknown allocator %q", c.Allocator))
	}
	switch c.Log.Backend {
	case "stumpy", "logrus", "zerolog", "console", "discard":
	default:
		errs = append(errs, fmt.Errorf("unknown log backend %q", c.Log.Backend))
	}
	if _, err := diag.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	for name, level := range c.Log.Subsystems {
		if _, err := diag.ParseLevel(level); err != nil {
			errs = append(errs, fmt.Errorf("subsystem %s: %w", name, err))
		}
	}
	for i, rl := range c.Log.RateLimits {
		if rl.Window <= 0 || rl.Events <= 0 {
			errs = append(errs, fmt.Errorf("rate_limit[%d]: window and events must be positive", i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("fibre: invalid config: %w", err)
	}
	return nil
}

// Apply builds the allocator, diagnostics, and options the config
// describes. Logs are written to w, or os.Stderr if w is nil.
func (c *Config) Apply(w io.Writer) (*Setup, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}

	level, _ := diag.ParseLevel(c.Log.Level)
	registry := diag.New(c.backend(w), level)
	for name, s := range c.Log.Subsystems {
		l, _ := diag.ParseLevel(s)
		registry.SetSubsystemLevel(name, l)
	}

	setup := &Setup{
		Diagnostics: registry,
		StackSize:   c.StackSize,
		Options:     []Option{WithDiagnostics(registry)},
	}
	if c.PageSize != 0 {
		setup.Options = append(setup.Options, WithPageSize(c.PageSize))
	}
	switch c.Allocator {
	case "sys":
		setup.Allocator = NewSysAllocator(registry)
	default:
		setup.Allocator = NewMmapAllocator(registry)
	}
	return setup, nil
}

func (c *Config) backend(w io.Writer) diag.Backend {
	var options []diag.BackendOption
	if len(c.Log.RateLimits) != 0 {
		rates := make(map[time.Duration]int, len(c.Log.RateLimits))
		for _, rl := range c.Log.RateLimits {
			rates[rl.Window] = rl.Events
		}
		options = append(options, diag.WithRateLimits(rates))
	}
	switch c.Log.Backend {
	case "logrus":
		l := logrus.New()
		l.Out = w
		l.Level = logrus.TraceLevel
		return diag.Logrus(l, options...)
	case "zerolog":
		return diag.Zerolog(zerolog.New(w).With().Timestamp().Logger(), options...)
	case "console":
		cw := zerolog.ConsoleWriter{Out: w, NoColor: true}
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			cw.Out = colorable.NewColorable(f)
			cw.NoColor = false
		}
		return diag.Zerolog(zerolog.New(cw).With().Timestamp().Logger(), options...)
	case "discard":
		return diag.Discard()
	default:
		return diag.Stumpy(w, nil, options...)
	}
}
