package config

import (
	"strconv"
	"strings"
)

// EnvPrefix starts every environment variable the loader reads.
const EnvPrefix = "QUILL_"

// LookupFunc looks up one environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envSetting binds one variable to a setting.
type envSetting struct {
	path string
	set  func(c *Config, v string) error
}

// envMapping maps variable names, without the prefix, to settings.
var envMapping = map[string]envSetting{
	"TAB_WIDTH":     {"editor.tab_width", intSetter(func(c *Config) *int { return &c.Editor.TabWidth })},
	"WRAP_WIDTH":    {"editor.wrap_width", intSetter(func(c *Config) *int { return &c.Editor.WrapWidth })},
	"AUTO_INDENT":   {"editor.auto_indent", boolSetter(func(c *Config) *bool { return &c.Editor.AutoIndent })},
	"THEME":         {"editor.theme", stringSetter(func(c *Config) *string { return &c.Editor.Theme })},
	"LANGUAGE":      {"editor.language", stringSetter(func(c *Config) *string { return &c.Editor.Language })},
	"LINE_NUMBERS":  {"editor.line_numbers", stringSetter(func(c *Config) *string { return &c.Editor.LineNumbers })},
	"STATUS_LINE":   {"editor.status_line", boolSetter(func(c *Config) *bool { return &c.Editor.StatusLine })},
	"SCROLL_OFF":    {"editor.scroll_off", intSetter(func(c *Config) *int { return &c.Editor.ScrollOff })},
	"MIN_BLOCK":     {"engine.min_block", intSetter(func(c *Config) *int { return &c.Engine.MinBlock })},
	"MAX_BLOCK":     {"engine.max_block", intSetter(func(c *Config) *int { return &c.Engine.MaxBlock })},
	"LOOKAHEAD":     {"engine.lookahead", intSetter(func(c *Config) *int { return &c.Engine.Lookahead })},
	"DIRTY_BUDGET":  {"engine.dirty_budget", intSetter(func(c *Config) *int { return &c.Engine.DirtyBudget })},
	"BRACKET_LIMIT": {"engine.bracket_limit", int64Setter(func(c *Config) *int64 { return &c.Engine.BracketLimit })},
	"DEBUG_CHECKS":  {"engine.debug_checks", boolSetter(func(c *Config) *bool { return &c.Engine.DebugChecks })},
	"IDLE_MS":       {"engine.idle_ms", intSetter(func(c *Config) *int { return &c.Engine.IdleMillis })},
	"LOG_LEVEL":     {"log.level", stringSetter(func(c *Config) *string { return &c.Log.Level })},
	"LOG_FILE":      {"log.file", stringSetter(func(c *Config) *string { return &c.Log.File })},
	"LOG_FORMAT":    {"log.format", stringSetter(func(c *Config) *string { return &c.Log.Format })},
}

// ApplyEnv overlays QUILL_* variables onto c. A value that does not parse
// is an error wrapping ErrInvalid naming the variable.
// Note: Empty string values are treated as valid values, not as unset.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	for name, s := range envMapping {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := s.set(c, v); err != nil {
			return invalid(s.path, "%s%s=%q: %v", EnvPrefix, name, v, err)
		}
	}
	return nil
}

// EnvNames returns every variable ApplyEnv reads.
func EnvNames() []string {
	names := make([]string, 0, len(envMapping))
	for name := range envMapping {
		names = append(names, EnvPrefix+name)
	}
	return names
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func int64Setter(field func(*Config) *int64) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func stringSetter(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

// parseBool accepts strconv's forms plus yes/no and on/off.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}
