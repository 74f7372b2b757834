package config

import (
	"flag"
	"fmt"
	"strings"
)

// flagToSource maps flag names to the config fields they set.
var flagToSource = map[string]string{
	"filetype":       "filetype",
	"f":              "filetype",
	"comment-prefix": "comment_prefixes",
	"output":         "output_file",
	"o":              "output_file",
	"json":           "json_file",
	"open":           "open",
	"prompt-dir":     "prompt_dir",
	"summarizer":     "summarizer.provider",
	"s":              "summarizer.provider",
	"model":          "summarizer.model",
	"base-url":       "summarizer.base_url",
	"api-key-env":    "summarizer.api_key_env",
	"timeout":        "summarizer.timeout_seconds",
	"rpm":            "summarizer.requests_per_minute",
	"on-error":       "summarizer.on_error",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// DefineFlags registers the configuration flags on fs with default values.
// It is used to list the flags in help output.
func DefineFlags(fs *flag.FlagSet) {
	cfg := &Config{}
	setDefaults(cfg)
	defineFlags(cfg, fs)
}

// parseFlags defines the CLI flags on fs, parses args and records SourceFlag
// for every flag that was set. Positional arguments are returned in order.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) ([]string, error) {
	if fs == nil {
		fs = flag.NewFlagSet("todomd", flag.ContinueOnError)
	}
	defineFlags(cfg, fs)

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagToSource[f.Name]; ok {
			if cfg.Sources == nil {
				cfg.Sources = make(map[string]ConfigSource)
			}
			cfg.Sources[field] = SourceFlag
		}
	})
	return positional, nil
}

// defineFlags binds every flag directly to its cfg field.
func defineFlags(cfg *Config, fs *flag.FlagSet) {
	// Scan
	fs.StringVar(&cfg.FileType, "filetype", cfg.FileType, "File type to scan (extension without the dot)")
	fs.StringVar(&cfg.FileType, "f", cfg.FileType, "Shorthand for -filetype")
	fs.Func("comment-prefix", "Extra comment prefix as ext=prefix (repeatable)", func(s string) error {
		ext, prefix, ok := strings.Cut(s, "=")
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if !ok || ext == "" || prefix == "" {
			return fmt.Errorf("want ext=prefix, got %q", s)
		}
		if cfg.CommentPrefixes == nil {
			cfg.CommentPrefixes = make(map[string]string)
		}
		cfg.CommentPrefixes[ext] = prefix
		return nil
	})

	// Output
	fs.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "Markdown checklist to write")
	fs.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "Shorthand for -output")
	fs.StringVar(&cfg.JSONFile, "json", cfg.JSONFile, "Also write the scan result as JSON to this path")
	fs.BoolVar(&cfg.Open, "open", cfg.Open, "Open the checklist viewer after writing")
	fs.StringVar(&cfg.PromptDir, "prompt-dir", cfg.PromptDir, "Prompt directory override")

	// Summarizer
	fs.StringVar(&cfg.Summarizer.Provider, "summarizer", cfg.Summarizer.Provider, "Summarizer (none, strip, openai, gemini)")
	fs.StringVar(&cfg.Summarizer.Provider, "s", cfg.Summarizer.Provider, "Shorthand for -summarizer")
	fs.StringVar(&cfg.Summarizer.Model, "model", cfg.Summarizer.Model, "Summarizer model")
	fs.StringVar(&cfg.Summarizer.BaseURL, "base-url", cfg.Summarizer.BaseURL, "Summarizer API base URL")
	fs.StringVar(&cfg.Summarizer.APIKeyEnv, "api-key-env", cfg.Summarizer.APIKeyEnv, "Environment variable holding the API key")
	fs.IntVar(&cfg.Summarizer.TimeoutSeconds, "timeout", cfg.Summarizer.TimeoutSeconds, "Per-request timeout (seconds, 0 disables)")
	fs.Float64Var(&cfg.Summarizer.RequestsPerMinute, "rpm", cfg.Summarizer.RequestsPerMinute, "Maximum summarizer requests per minute (0 disables)")
	fs.StringVar(&cfg.Summarizer.OnError, "on-error", cfg.Summarizer.OnError, "Summarizer failure policy (abort, skip)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
}

// parseInterspersed parses args with fs, allowing flags after positional
// arguments. Everything after a "--" terminator is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if endsWithTerminator(fs, args[:len(args)-len(rest)]) {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// endsWithTerminator reports whether the parsed args stopped at a "--"
// terminator rather than at a flag value that happens to be "--".
func endsWithTerminator(fs *flag.FlagSet, parsed []string) bool {
	for i := 0; i < len(parsed); i++ {
		if parsed[i] == "--" {
			return i == len(parsed)-1
		}
		if takesValue(fs, parsed[i]) {
			i++
		}
	}
	return false
}

// takesValue reports whether arg is a flag whose value is the next argument.
func takesValue(fs *flag.FlagSet, arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}
	name := strings.TrimLeft(arg, "-")
	if name == "" || strings.Contains(name, "=") {
		return false
	}
	f := fs.Lookup(name)
	if f == nil {
		return false
	}
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return false
	}
	return true
}
