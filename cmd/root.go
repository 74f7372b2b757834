// Package cmd implements the CLI command structure for todomd.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/nibzard/todomd/internal/config"
	"github.com/nibzard/todomd/internal/keywords"
	"github.com/nibzard/todomd/internal/logging"
	"github.com/nibzard/todomd/internal/markdown"
	"github.com/nibzard/todomd/internal/prompts"
	"github.com/nibzard/todomd/internal/scan"
	"github.com/nibzard/todomd/internal/summarize"
	"github.com/nibzard/todomd/internal/todo"
	"github.com/nibzard/todomd/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Replaced in tests.
var (
	stdout     io.Writer = os.Stdout
	stderr     io.Writer = os.Stderr
	loadDotEnv           = func() error { return godotenv.Load() }
	runViewer            = ui.RunViewer
)

// Run executes the todomd CLI.
func Run(ctx context.Context, args []string) error {
	// A missing .env file is not an error.
	_ = loadDotEnv()

	err := dispatch(ctx, args)
	if errors.Is(err, flag.ErrHelp) {
		// Usage was already printed by the flag set.
		return nil
	}
	return err
}

func dispatch(ctx context.Context, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "view":
			return viewCommand(ctx, args[1:])
		case "filetypes":
			return filetypesCommand(args[1:])
		case "config":
			return configCommand(args[1:])
		case "version":
			return versionCommand()
		case "help":
			printUsage(newFlagSet("todomd"), stdout)
			return nil
		}
	}
	return scanCommand(ctx, args)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// loadConfig loads configuration with fs and turns flag errors into
// invalid-argument errors.
func loadConfig(fs *flag.FlagSet, args []string) (*config.Config, []string, error) {
	cfg, positional, err := config.Load(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return nil, nil, flag.ErrHelp
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", config.ErrInvalidArgument, err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, positional, nil
}

func newLogger(cfg *config.Config) *log.Logger {
	logger := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	return logger
}

// scanCommand scans a project directory and writes the checklist.
func scanCommand(ctx context.Context, args []string) error {
	fs := newFlagSet("todomd")
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, positional, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	switch len(positional) {
	case 0:
		printUsage(fs, stderr)
		return fmt.Errorf("%w: project directory is required", config.ErrInvalidArgument)
	case 1:
		cfg.ProjectRoot = positional[0]
	default:
		return fmt.Errorf("%w: unexpected arguments: %v", config.ErrInvalidArgument, positional[1:])
	}

	logger := newLogger(cfg)
	if err := config.ValidateRoot(cfg.ProjectRoot); err != nil {
		return err
	}

	table := keywords.DefaultTable().Merge(cfg.CommentPrefixes)
	set, err := table.Build(cfg.FileType)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidArgument, err)
	}

	fn, err := summarize.New(ctx, cfg.Summarizer, summarize.Options{
		Renderer: prompts.NewRenderer(prompts.NewStore(cfg.PromptDir)),
		Prefixes: table,
		OnSkip: func(rec todo.Record, err error) {
			logger.Warn("Summary failed, keeping the raw comment", "path", rec.Path, "line", rec.Line, "err", err)
		},
	})
	if err != nil {
		return err
	}

	logger.Infof("Looking for TODO tasks in %s files", set.FileType)
	idx, err := scan.Scan(cfg.ProjectRoot, set, scan.Options{
		OnProgress: func(p scan.Progress) {
			if !p.Done {
				logger.Debug("Scanned", "path", p.Path, "files", p.Scanned, "matches", p.Matches)
			}
		},
	})
	if err != nil {
		return err
	}
	logger.Infof("Found %d TODO tasks in %d files", idx.Count(), idx.Len())

	logger.Infof("Writing TODO tasks to %s", cfg.OutputFile)
	err = markdown.Write(ctx, cfg.OutputFile, idx, fn, markdown.Options{
		OnProgress: writeProgress(logger, idx),
	})
	if err != nil {
		return err
	}

	if cfg.JSONFile != "" {
		if err := todo.NewExport(idx, set.FileType).Save(cfg.JSONFile); err != nil {
			return err
		}
		logger.Infof("Wrote JSON export to %s", cfg.JSONFile)
	}
	logger.Infof("TODO tasks have been extracted to %s", cfg.OutputFile)

	if cfg.Open {
		if err := runViewer(ctx, cfg.OutputFile); err != nil {
			if errors.Is(err, ui.ErrNotTTY) {
				logger.Warn("Not a terminal, skipping the viewer")
				return nil
			}
			return err
		}
	}
	return nil
}

// writeProgress logs every record at debug level and a running total at
// info level each time a file is finished.
func writeProgress(logger *log.Logger, idx *todo.Index) func(done, total int, rec todo.Record) {
	var path string
	var inFile int
	start := time.Now()
	return func(done, total int, rec todo.Record) {
		logger.Debug("Summarized", "done", done, "total", total, "path", rec.Path, "line", rec.Line)
		if rec.Path != path {
			path, inFile = rec.Path, 0
		}
		inFile++
		if inFile == len(idx.Records(path)) {
			logger.Info(fmt.Sprintf("Summarized %d/%d TODO tasks", done, total),
				"file", path, "elapsed", time.Since(start).Round(time.Millisecond))
		}
	}
}

// viewCommand opens a checklist file in the terminal viewer.
func viewCommand(ctx context.Context, args []string) error {
	fs := newFlagSet("todomd view")
	cfg, positional, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	path := cfg.OutputFile
	switch len(positional) {
	case 0:
	case 1:
		path = positional[0]
	default:
		return fmt.Errorf("%w: unexpected arguments: %v", config.ErrInvalidArgument, positional[1:])
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidArgument, err)
	}
	return runViewer(ctx, path)
}

// filetypesCommand lists the supported file types and their comment prefixes.
func filetypesCommand(args []string) error {
	fs := newFlagSet("todomd filetypes")
	cfg, positional, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", config.ErrInvalidArgument, positional)
	}

	defaults := keywords.DefaultTable()
	table := defaults.Merge(cfg.CommentPrefixes)
	for _, ft := range table.FileTypes() {
		line := fmt.Sprintf("%-6s %s", ft, table[ft])
		if p, ok := defaults[ft]; !ok || p != table[ft] {
			line += "  (config)"
		}
		fmt.Fprintln(stdout, line)
	}
	return nil
}

// configCommand prints the effective configuration or an example file.
func configCommand(args []string) error {
	fs := newFlagSet("todomd config")
	example := fs.Bool("example", false, "Print an example config file")
	cfg, positional, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected arguments: %v", config.ErrInvalidArgument, positional)
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	files := config.ConfigFiles()
	if len(files) == 0 {
		fmt.Fprintln(stdout, "# no config files found")
	}
	for _, f := range files {
		fmt.Fprintf(stdout, "# config file: %s\n", f)
	}
	for _, field := range config.Describe(cfg) {
		fmt.Fprintf(stdout, "%s = %q  # %s\n", field.Name, field.Value, field.Source)
	}
	for _, w := range cfg.Warnings {
		fmt.Fprintf(stdout, "# warning: %s\n", w)
	}
	return nil
}

func versionCommand() error {
	fmt.Fprintf(stdout, "todomd version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todomd - Collect TODO comments into a markdown checklist")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todomd <project_directory> [options]")
	fmt.Fprintln(w, "  todomd [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  view [file]   Open a checklist in the terminal viewer (default: output file)")
	fmt.Fprintln(w, "  filetypes     List supported file types and comment prefixes")
	fmt.Fprintln(w, "  config        Show the effective configuration (-example for a sample file)")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "To scan a directory named like a command, write ./config or put it after --.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	if fs.Lookup("filetype") == nil {
		config.DefineFlags(fs)
	}
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summarizers:")
	fmt.Fprintf(w, "  %s\n", strings.Join(config.Providers(), ", "))
	fmt.Fprintln(w, "  openai and gemini read their API key from OPENAI_API_KEY / GEMINI_API_KEY")
	fmt.Fprintln(w, "  (a .env file in the working directory is loaded automatically).")
}
