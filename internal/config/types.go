// Package config handles configuration loading and defaults.
package config

import "errors"

// ErrInvalidArgument is returned for bad CLI input or configuration values.
var ErrInvalidArgument = errors.New("invalid argument")

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultFileType       = "tex"
	DefaultOutputFile     = "todo.md"
	DefaultProvider       = ProviderOpenAI
	DefaultOnError        = OnErrorAbort
	DefaultTimeoutSeconds = 60
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Summarizer providers.
const (
	ProviderNone   = "none"
	ProviderStrip  = "strip"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Summarizer failure policies.
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

// Providers returns the accepted summarizer provider names.
func Providers() []string {
	return []string{ProviderNone, ProviderStrip, ProviderOpenAI, ProviderGemini}
}

// Config holds the full configuration for todomd.
type Config struct {
	// Scan
	FileType string `toml:"filetype"`

	// Extra or overriding file-type -> comment prefix entries.
	CommentPrefixes map[string]string `toml:"comment_prefixes"`

	// Output
	OutputFile string `toml:"output_file"`
	JSONFile   string `toml:"json_file"`
	Open       bool   `toml:"open"`

	// Prompt override directory (system.txt, todo.txt)
	PromptDir string `toml:"prompt_dir"`

	Summarizer Summarizer `toml:"summarizer"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Directory to scan (positional argument)
	ProjectRoot string `toml:"-"`

	// Sources maps dotted field names to where their value came from.
	Sources map[string]ConfigSource `toml:"-"`

	// Warnings collects non-fatal problems found while loading, such as
	// unknown keys in a config file.
	Warnings []string `toml:"-"`
}

// Summarizer configures the external summarization service.
type Summarizer struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	BaseURL           string  `toml:"base_url"`
	APIKeyEnv         string  `toml:"api_key_env"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerMinute float64 `toml:"requests_per_minute"`
	OnError           string  `toml:"on_error"`
}

// DefaultAPIKeyEnv returns the environment variable holding the API key for
// a provider, or "" for providers that need none.
func DefaultAPIKeyEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// KeyEnv returns the configured key variable, or the provider default.
func (s Summarizer) KeyEnv() string {
	if s.APIKeyEnv != "" {
		return s.APIKeyEnv
	}
	return DefaultAPIKeyEnv(s.Provider)
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"filetype",
		"comment_prefixes",
		"output_file",
		"json_file",
		"open",
		"prompt_dir",
		"summarizer.provider",
		"summarizer.model",
		"summarizer.base_url",
		"summarizer.api_key_env",
		"summarizer.timeout_seconds",
		"summarizer.requests_per_minute",
		"summarizer.on_error",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
