package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/dshills/quill/internal/highlight"
)

// Format is a configuration file syntax.
type Format uint8

// Supported formats.
const (
	TOML Format = iota
	YAML
)

// FormatOf picks the format for a file name by extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", "":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return TOML, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Config holds every setting.
type Config struct {
	Editor EditorConfig `toml:"editor" yaml:"editor"`
	Engine EngineConfig `toml:"engine" yaml:"engine"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// EditorConfig holds layout and display settings.
type EditorConfig struct {
	// TabWidth is the tab stop interval.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`

	// WrapWidth is the column lines wrap at. Zero disables wrapping and
	// WrapWindow wraps at the window edge.
	WrapWidth int `toml:"wrap_width" yaml:"wrap_width"`

	// AutoIndent indents wrapped rows and new lines like their line.
	AutoIndent bool `toml:"auto_indent" yaml:"auto_indent"`

	// Theme is a chroma style name.
	Theme string `toml:"theme" yaml:"theme"`

	// Language forces a highlighter; empty picks one from the file name.
	Language string `toml:"language" yaml:"language"`

	// LineNumbers is "off", "absolute", "relative" or "hybrid".
	LineNumbers string `toml:"line_numbers" yaml:"line_numbers"`

	// StatusLine shows the status line.
	StatusLine bool `toml:"status_line" yaml:"status_line"`

	// ScrollOff is the number of rows kept visible around the cursor.
	ScrollOff int `toml:"scroll_off" yaml:"scroll_off"`
}

// WrapWindow is the WrapWidth that wraps at the window edge.
const WrapWindow = -1

// EngineConfig tunes the buffer engine.
type EngineConfig struct {
	// MinBlock is the leaf size below which neighbours are merged.
	MinBlock int `toml:"min_block" yaml:"min_block"`

	// MaxBlock is the largest leaf compaction or chunking produces.
	MaxBlock int `toml:"max_block" yaml:"max_block"`

	// Lookahead is how many bytes before an edit are invalidated. It must
	// cover the highlighter window.
	Lookahead int `toml:"lookahead" yaml:"lookahead"`

	// DirtyBudget is the number of leaves one idle refresh rescans.
	DirtyBudget int `toml:"dirty_budget" yaml:"dirty_budget"`

	// BracketLimit bounds bracket searches, in bytes.
	BracketLimit int64 `toml:"bracket_limit" yaml:"bracket_limit"`

	// DebugChecks verifies the tree after every edit.
	DebugChecks bool `toml:"debug_checks" yaml:"debug_checks"`

	// IdleMillis is the interval between idle refresh steps.
	IdleMillis int `toml:"idle_ms" yaml:"idle_ms"`
}

// IdleInterval returns IdleMillis as a duration.
func (e EngineConfig) IdleInterval() time.Duration {
	return time.Duration(e.IdleMillis) * time.Millisecond
}

// LogConfig selects log output.
type LogConfig struct {
	// Level is a zerolog level name.
	Level string `toml:"level" yaml:"level"`

	// File receives the log; empty means stderr.
	File string `toml:"file" yaml:"file"`

	// Format is "console" or "json".
	Format string `toml:"format" yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:    8,
			WrapWidth:   WrapWindow,
			AutoIndent:  true,
			Theme:       "monokai",
			LineNumbers: "absolute",
			StatusLine:  true,
			ScrollOff:   2,
		},
		Engine: EngineConfig{
			MinBlock:     256,
			MaxBlock:     4096,
			Lookahead:    64,
			DirtyBudget:  64,
			BracketLimit: 1 << 20,
			IdleMillis:   15,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns the per-user configuration file path.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return filepath.Join(dir, "quill", "config.toml"), nil
}

// Load reads defaults, then the file at path when it is not empty, then
// the environment, and validates the result. A missing file is an error
// wrapping fs.ErrNotExist.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		if err := c.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile overlays the settings of one file onto c.
func (c *Config) LoadFile(path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.decode(path, format, bytes.NewReader(data))
}

// Decode overlays settings read from r onto c.
func (c *Config) Decode(r io.Reader, format Format) error {
	return c.decode("<reader>", format, r)
}

func (c *Config) decode(source string, format Format, r io.Reader) error {
	var err error
	switch format {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err = dec.Decode(c); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		err = toml.NewDecoder(r).DisallowUnknownFields().Decode(c)
	}
	if err == nil {
		return nil
	}
	perr := &ParseError{Path: source, Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		perr.Line, perr.Column = derr.Position()
	}
	return perr
}

// Validate reports every unusable setting, each wrapping ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	e, g, l := c.Editor, c.Engine, c.Log

	if e.TabWidth < 1 || e.TabWidth > 32 {
		errs = append(errs, invalid("editor.tab_width", "%d not in [1,32]", e.TabWidth))
	}
	if e.WrapWidth < WrapWindow {
		errs = append(errs, invalid("editor.wrap_width", "%d is negative", e.WrapWidth))
	}
	if e.Theme == "" {
		errs = append(errs, invalid("editor.theme", "empty"))
	}
	switch e.LineNumbers {
	case "off", "absolute", "relative", "hybrid":
	default:
		errs = append(errs, invalid("editor.line_numbers", "%q is not off, absolute, relative or hybrid", e.LineNumbers))
	}
	if e.Language != "" && !highlight.Known(e.Language) {
		errs = append(errs, invalid("editor.language", "%q is not a known language", e.Language))
	}
	if e.ScrollOff < 0 {
		errs = append(errs, invalid("editor.scroll_off", "%d is negative", e.ScrollOff))
	}

	if g.MinBlock < 1 {
		errs = append(errs, invalid("engine.min_block", "%d is not positive", g.MinBlock))
	}
	if g.MaxBlock < g.MinBlock {
		errs = append(errs, invalid("engine.max_block", "%d is below min_block %d", g.MaxBlock, g.MinBlock))
	}
	if g.Lookahead < highlight.Window {
		errs = append(errs, invalid("engine.lookahead", "%d is below the highlighter window of %d bytes", g.Lookahead, highlight.Window))
	}
	if g.DirtyBudget < 1 {
		errs = append(errs, invalid("engine.dirty_budget", "%d is not positive", g.DirtyBudget))
	}
	if g.BracketLimit < 1 {
		errs = append(errs, invalid("engine.bracket_limit", "%d is not positive", g.BracketLimit))
	}
	if g.IdleMillis < 1 {
		errs = append(errs, invalid("engine.idle_ms", "%d is not positive", g.IdleMillis))
	}

	if _, err := zerolog.ParseLevel(l.Level); err != nil {
		errs = append(errs, invalid("log.level", "%q: %v", l.Level, err))
	}
	switch l.Format {
	case "console", "json":
	default:
		errs = append(errs, invalid("log.format", "%q is not console or json", l.Format))
	}
	return errors.Join(errs...)
}
