package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dshills/quill/internal/config"
)

// ParseLogLevel parses a level name. "warning" is accepted for "warn" and
// an empty name means info.
func ParseLogLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

// NewLogger builds a logger writing to w in the configured format.
func NewLogger(cfg config.LogConfig, w io.Writer, color bool) (zerolog.Logger, error) {
	lvl, err := ParseLogLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !color}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// SetupLogging points the global logger at the configured file, or at
// fallback when no file is set, and sets the global level. The returned
// closer releases the file.
func SetupLogging(cfg config.LogConfig, fallback io.Writer) (io.Closer, error) {
	w, closer := fallback, io.NopCloser(nil)
	color := false
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, &OperationError{Op: "open log", Target: cfg.File, Err: err}
		}
		w, closer = f, f
	} else if f, ok := fallback.(*os.File); ok {
		color = isTerminal(f)
	}
	l, err := NewLogger(cfg, w, color)
	if err != nil {
		closer.Close()
		return nil, err
	}
	zerolog.SetGlobalLevel(l.GetLevel())
	log.Logger = l.Level(zerolog.TraceLevel)
	return closer, nil
}

// SetLogLevel changes the level of every logger derived from the global
// one.
func SetLogLevel(s string) error {
	lvl, err := ParseLogLevel(s)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// WithComponent returns a child of the global logger tagged with a
// component name.
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
