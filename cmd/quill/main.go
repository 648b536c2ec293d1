// Package main is the entry point for the Quill editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/dshills/quill/internal/app"
	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/config/watcher"
	"github.com/dshills/quill/internal/highlight"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	width      int
	widthSet   bool
	debug      bool
	noWatch    bool
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, cfgPath, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Nothing may write to the terminal while the screen owns it, so
	// without a log file the session is not logged.
	logs, err := app.SetupLogging(cfg.Log, io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logs.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}

	err = edit(cfg, cfgPath, screen, opts)
	screen.Fini()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// edit runs the editor on an initialized screen until it quits.
func edit(cfg *config.Config, cfgPath string, screen tcell.Screen, opts options) error {
	var appOpts []app.Option
	if cfgPath != "" && !opts.noWatch {
		w, err := watcher.New(cfgPath, watcher.WithLoader(func(path string) (*config.Config, error) {
			c, err := config.Load(path)
			if err != nil {
				return nil, err
			}
			applyFlags(c, opts)
			return c, c.Validate()
		}))
		if err != nil {
			log.Warn().Err(err).Str("path", cfgPath).Msg("config changes will not be picked up")
		} else {
			defer w.Close()
			appOpts = append(appOpts, app.WithWatcher(w))
		}
	}

	a, err := app.New(cfg, screen, opts.file, appOpts...)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = a.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loadConfig reads the configuration named by -config, or the per-user
// file when it exists, and applies the flag overrides. It returns the path
// of the file that was read, if any.
func loadConfig(opts options) (*config.Config, string, error) {
	path := opts.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, "", fmt.Errorf("config: %w", err)
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// applyFlags overrides configuration with the command line.
func applyFlags(cfg *config.Config, opts options) {
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.widthSet {
		cfg.Editor.WrapWidth = opts.width
	}
	if opts.debug {
		cfg.Engine.DebugChecks = true
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flag.IntVar(&opts.width, "width", 0, "Wrap width in columns (0 disables wrapping, -1 wraps at the window edge)")
	flag.BoolVar(&opts.debug, "debug", false, "Check engine invariants after every edit")
	flag.BoolVar(&opts.noWatch, "no-watch", false, "Do not reload the configuration file when it changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Quill - a terminal text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: quill [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		for _, name := range config.EnvNames() {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
		fmt.Fprintf(os.Stderr, "\nLanguages (editor.language):\n  %s\n", strings.Join(highlight.Names(), " "))
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-S save   Ctrl-Q quit   Ctrl-A select all\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-C copy   Ctrl-X cut    Ctrl-V paste   Ctrl-] matching bracket\n")
	}

	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "width" {
			opts.widthSet = true
		}
	})

	if showVersion {
		fmt.Printf("Quill %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch flag.NArg() {
	case 0:
	case 1:
		opts.file = flag.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: quill edits one file at a time\n")
		flag.Usage()
		os.Exit(2)
	}
	return opts
}
