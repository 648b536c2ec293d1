// Package config loads editor settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. built-in defaults (Default)
//  2. a TOML file, or YAML when the file name ends in .yaml or .yml
//  3. QUILL_* environment variables
//
// Example file:
//
//	[editor]
//	tab_width = 4
//	wrap_width = -1   # 0 disables wrapping, -1 wraps at the window edge
//	auto_indent = true
//	theme = "monokai"
//	line_numbers = "relative"
//
//	[engine]
//	min_block = 256
//	max_block = 4096
//	lookahead = 64
//	dirty_budget = 64
//	bracket_limit = 1048576
//	debug_checks = false
//
//	[log]
//	level = "info"
//	file = "/tmp/quill.log"
package config
