// Package main is the entry point for the ropecore command, which loads a
// document into an edit engine, replays an edit script against it and
// optionally follows the file on disk.
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
	"time"

	"github.com/mattn/go-isatty"

	"github.com/dshills/ropecore/internal/config"
	"github.com/dshills/ropecore/internal/engine"
	"github.com/dshills/ropecore/internal/engine/rope"
	"github.com/dshills/ropecore/internal/filesync"
	"github.com/dshills/ropecore/internal/logging"
	"github.com/dshills/ropecore/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	logLevel    string
	scriptPath  string
	outputPath  string
	watch       bool
	readOnly    bool
	showVersion bool
	file        string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("ropecore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.scriptPath, "script", "", "YAML edit script to replay (- reads standard input)")
	fs.StringVar(&opts.outputPath, "o", "", "Write the resulting document to this path")
	fs.BoolVar(&opts.watch, "watch", false, "Keep running and reload the file when it changes")
	fs.BoolVar(&opts.readOnly, "R", false, "Open the document read-only")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "ropecore - rope-backed edit engine\n\n")
		fmt.Fprintf(stderr, "Usage: ropecore [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  ropecore -script edits.yaml -o out.txt in.txt\n")
		fmt.Fprintf(stderr, "  ropecore -watch -log-level debug notes.md\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return opts, errors.New("at most one file may be given")
	}
	opts.file = fs.Arg(0)
	if opts.watch && opts.file == "" {
		return opts, errors.New("-watch needs a file")
	}
	return opts, nil
}

func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.readOnly {
		cfg.Editor.ReadOnly = true
	}
	return cfg, cfg.Validate()
}

func loadDocument(path string) (rope.Rope, error) {
	if path == "" {
		return rope.New(), nil
	}
	doc, err := filesync.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return rope.New(), nil
	}
	return doc, err
}

// readScript loads the edit script from path, or from stdin when path is
// "-". An interactive terminal is never read as a script.
func readScript(path string, stdin io.Reader) (script.Script, error) {
	if path != "-" {
		return script.ParseFile(path)
	}
	if f, ok := stdin.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return script.Script{}, errors.New("refusing to read a script from a terminal")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return script.Script{}, fmt.Errorf("reading script from stdin: %w", err)
	}
	return script.Parse(data)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "ropecore %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel(), Output: stderr, Prefix: "ropecore"})

	doc, err := loadDocument(opts.file)
	if err != nil {
		logger.Error("failed to load document: %v", err)
		return 1
	}

	engineOpts := append(cfg.EngineOptions(logger), engine.WithRope(doc))

	var steps script.Script
	var clock *script.Clock
	if opts.scriptPath != "" {
		if steps, err = readScript(opts.scriptPath, stdin); err != nil {
			logger.Error("%v", err)
			return 1
		}
		clock = script.NewClock(time.Now())
		engineOpts = append(engineOpts, engine.WithClock(clock.Now))
	}

	e := engine.New(engineOpts...)
	logger.Debug("session %s opened %q (%d bytes)", e.SessionID(), opts.file, e.Len())

	if opts.scriptPath != "" {
		res, err := script.Run(e, steps, clock)
		if err != nil {
			logger.Error("script failed: %v", err)
			return 1
		}
		logger.Info("script applied %d steps (%d edits, %d searches)", res.Steps, res.Edits, res.Searches)
	}

	if opts.outputPath != "" {
		if err := filesync.Save(opts.outputPath, e.Rope()); err != nil {
			logger.Error("failed to write %s: %v", opts.outputPath, err)
			return 1
		}
	}

	printStats(stdout, e)

	if opts.watch {
		if err := watch(ctx, opts.file, e, cfg, logger, stdout); err != nil {
			logger.Error("watch failed: %v", err)
			return 1
		}
	}
	return 0
}

func watch(ctx context.Context, path string, e *engine.Engine, cfg config.Config, logger *logging.Logger, stdout io.Writer) error {
	w, err := filesync.Watch(path, e,
		filesync.WithDebounce(cfg.Debounce()),
		filesync.WithLogger(logger),
		filesync.WithOnReload(func(rope.Rope) { printStats(stdout, e) }),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	<-ctx.Done()
	logger.Debug("stopping after %d reloads", w.Reloads())
	return nil
}

func printStats(w io.Writer, e *engine.Engine) {
	r := e.Rope()
	fmt.Fprintf(w, "bytes=%d lines=%d height=%d undo=%d redo=%d revision=%d\n",
		r.Len(), r.LineCount(), r.Height(), e.UndoCount(), e.RedoCount(), e.Revision())
}
