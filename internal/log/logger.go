// Package log sets up the API's zerolog loggers: one root logger built from
// config, a child per component, and a request logger carried in the context.
package log

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "jobzee"

// Config selects the level and encoding of the root logger.
type Config struct {
	Level  string    // zerolog level name, info when empty or unknown
	Format string    // "json" or "console"
	Output io.Writer // os.Stdout when nil
}

var root atomic.Pointer[zerolog.Logger]

func init() {
	Configure(Config{})
}

// Configure builds the root logger and returns it. Loggers already handed out
// by WithComponent keep their previous output.
func Configure(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	l := zerolog.New(out).Level(level).With().
		Timestamp().
		Str(FieldService, serviceName).
		Logger()
	root.Store(&l)
	return l
}

// Root returns the logger installed by the last Configure.
func Root() zerolog.Logger {
	return *root.Load()
}

// WithComponent returns a child of the root logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	return Root().With().Str(FieldComponent, component).Logger()
}
