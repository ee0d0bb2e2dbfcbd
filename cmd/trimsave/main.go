// Package main is the entry point for trimsave.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/trimsave/internal/app"
	"github.com/dshills/trimsave/internal/engine"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK      = 0
	exitChanged = 1 // -check found files that would change, or a file failed
	exitUsage   = 2
)

// errHelp reports that usage or version output was requested.
var errHelp = errors.New("help requested")

type cliOptions struct {
	app      app.Options
	check    bool
	settings bool
	line     uint
	col      uint
	files    []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stdout, stderr)
	if errors.Is(err, errHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	opts.app.LogOutput = stderr
	opts.app.Watch = opts.settings

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return exitChanged
	}
	defer func() { _ = application.Close() }()

	if opts.settings {
		if err := application.OpenSettings(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitChanged
		}
		return exitOK
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return processFiles(ctx, application, opts, stdout, stderr)
}

// processFiles saves or checks each file in turn. It stops early if ctx
// is cancelled between files.
func processFiles(ctx context.Context, application *app.Application, opts cliOptions, stdout, stderr io.Writer) int {
	caret := caretPoint(opts.line, opts.col)
	status := exitOK

	for _, path := range opts.files {
		if ctx.Err() != nil {
			fmt.Fprintln(stderr, "interrupted")
			return exitChanged
		}

		var (
			changed bool
			err     error
		)
		if opts.check {
			changed, err = application.CheckFile(path, caret)
		} else {
			changed, err = application.SaveFile(path, caret)
		}

		switch {
		case err != nil:
			fmt.Fprintf(stderr, "Error: %v\n", err)
			status = exitChanged
		case changed && opts.check:
			fmt.Fprintln(stdout, path)
			status = exitChanged
		}
	}

	s := application.Metrics().Snapshot()
	application.Logger().Debug("%d file(s), %d changed, %d failed, %d bytes removed in %v",
		s.Files, s.Changed, s.Failed, s.BytesRemoved, s.Uptime)
	return status
}

// caretPoint converts 1-based -line and -col values to an engine point.
// Zero means the first line or column.
func caretPoint(line, col uint) engine.Point {
	var p engine.Point
	if line > 0 {
		p.Line = uint32(line - 1)
	}
	if col > 0 {
		p.Column = uint32(col - 1)
	}
	return p
}

func parseFlags(args []string, stdout, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	fs := flag.NewFlagSet("trimsave", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.app.ConfigDir, "config", "", "Configuration directory (default $XDG_CONFIG_HOME/trimsave)")
	fs.StringVar(&opts.app.ConfigDir, "c", "", "Configuration directory (shorthand)")
	fs.StringVar(&opts.app.ProjectDir, "project", "", "Directory searched for .trimsave.toml (default current directory)")
	fs.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides logging.level")
	fs.BoolVar(&opts.check, "check", false, "Report files that would change without writing them")
	fs.UintVar(&opts.line, "line", 0, "Cursor line (1-based) used by preserve-cursor")
	fs.UintVar(&opts.col, "col", 0, "Cursor column (1-based, in bytes) used by preserve-cursor")
	fs.BoolVar(&opts.settings, "settings", false, "Open the settings panel")
	fs.BoolVar(&opts.app.NoPlugins, "no-plugins", false, "Do not load Lua plugins")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "trimsave - remove trailing whitespace before saving\n\n")
		fmt.Fprintf(out, "Usage: trimsave [options] files...\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  trimsave main.go                 Trim and save a file\n")
		fmt.Fprintf(out, "  trimsave -check *.go             List files that would change\n")
		fmt.Fprintf(out, "  trimsave -line 3 -col 5 a.txt    Keep whitespace before the cursor\n")
		fmt.Fprintf(out, "  trimsave -settings               Edit the trim preferences\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}

	if showHelp {
		fs.SetOutput(stdout)
		fs.Usage()
		return opts, errHelp
	}

	if showVersion {
		fmt.Fprintf(stdout, "trimsave %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, errHelp
	}

	switch opts.app.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.app.LogLevel)
	}

	opts.files = fs.Args()
	if !opts.settings && len(opts.files) == 0 {
		return opts, errors.New("no files given (see -help)")
	}
	if opts.settings && opts.check {
		return opts, errors.New("-settings and -check cannot be combined")
	}

	return opts, nil
}
