package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/todomd/internal/utils"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.todomd/todomd.toml or OS-specific config dir)
// 3. Project config file (todomd.toml or .todomd.toml in current directory)
// 4. Environment variables
// 5. CLI flags
//
// Flags are registered on fs and may be interleaved with positional
// arguments, which are returned in order.
func Load(fs *flag.FlagSet, args []string) (*Config, []string, error) {
	cfg := &Config{}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, SourceUserFile); err != nil {
			return nil, nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, SourceProjFile); err != nil {
			return nil, nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	positional, err := parseFlags(cfg, fs, args)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	finalizeConfig(cfg)

	return cfg, positional, nil
}

// loadConfigFile decodes a TOML file over cfg and records the source of
// every key it defines. Unknown keys become warnings.
func loadConfigFile(cfg *Config, path string, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}

	known := make(map[string]bool)
	for _, field := range configFields() {
		known[field] = true
	}
	for _, key := range md.Keys() {
		name := key.String()
		if len(key) > 0 && key[0] == "comment_prefixes" {
			name = "comment_prefixes"
		}
		if known[name] {
			cfg.Sources[name] = source
		}
	}
	for _, key := range md.Undecoded() {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: unknown key %q", path, key.String()))
	}
	return nil
}

// finalizeConfig normalizes names and expands paths.
func finalizeConfig(cfg *Config) {
	cfg.FileType = strings.TrimPrefix(utils.NormalizeName(cfg.FileType), ".")
	cfg.Summarizer.Provider = utils.NormalizeName(cfg.Summarizer.Provider)
	cfg.Summarizer.OnError = utils.NormalizeName(cfg.Summarizer.OnError)
	cfg.LogFormat = utils.NormalizeName(cfg.LogFormat)

	cfg.OutputFile = expandPath(cfg.OutputFile)
	cfg.JSONFile = expandPath(cfg.JSONFile)
	cfg.PromptDir = expandPath(cfg.PromptDir)
}

// Validate checks option values. It does not touch the filesystem.
func Validate(cfg *Config) error {
	if cfg.FileType == "" {
		return fmt.Errorf("%w: filetype is empty", ErrInvalidArgument)
	}
	if cfg.OutputFile == "" {
		return fmt.Errorf("%w: output file is empty", ErrInvalidArgument)
	}
	if !contains(Providers(), cfg.Summarizer.Provider) {
		return fmt.Errorf("%w: unknown summarizer %q (want one of %s)",
			ErrInvalidArgument, cfg.Summarizer.Provider, strings.Join(Providers(), ", "))
	}
	switch cfg.Summarizer.OnError {
	case OnErrorAbort, OnErrorSkip:
	default:
		return fmt.Errorf("%w: on_error must be %q or %q, got %q",
			ErrInvalidArgument, OnErrorAbort, OnErrorSkip, cfg.Summarizer.OnError)
	}
	if cfg.Summarizer.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: timeout_seconds must not be negative", ErrInvalidArgument)
	}
	if cfg.Summarizer.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: requests_per_minute must not be negative", ErrInvalidArgument)
	}
	switch cfg.LogFormat {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("%w: log_format must be text, json or logfmt, got %q", ErrInvalidArgument, cfg.LogFormat)
	}
	return nil
}

// ValidateRoot checks that root exists and is a directory.
func ValidateRoot(root string) error {
	if root == "" {
		return fmt.Errorf("%w: project directory is required", ErrInvalidArgument)
	}
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: project directory %s does not exist", ErrInvalidArgument, root)
		}
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidArgument, root)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
