package config

import (
	"os"
	"strconv"

	"github.com/nibzard/todomd/internal/utils"
)

// loadFromEnv overrides config from TODOMD_* environment variables and
// records SourceEnv for every field it sets. Malformed numbers are reported
// as warnings and ignored.
func loadFromEnv(cfg *Config) {
	setEnv := func(field string) {
		if cfg.Sources == nil {
			cfg.Sources = make(map[string]ConfigSource)
		}
		cfg.Sources[field] = SourceEnv
	}
	warn := func(name, value string) {
		cfg.Warnings = append(cfg.Warnings, name+": ignoring malformed value "+strconv.Quote(value))
	}

	if v := os.Getenv("TODOMD_FILETYPE"); v != "" {
		cfg.FileType = v
		setEnv("filetype")
	}
	if v := os.Getenv("TODOMD_COMMENT_PREFIXES"); v != "" {
		if cfg.CommentPrefixes == nil {
			cfg.CommentPrefixes = make(map[string]string)
		}
		for k, p := range utils.ParsePairs(v, ",") {
			cfg.CommentPrefixes[k] = p
		}
		setEnv("comment_prefixes")
	}
	if v := os.Getenv("TODOMD_OUTPUT"); v != "" {
		cfg.OutputFile = v
		setEnv("output_file")
	}
	if v := os.Getenv("TODOMD_JSON"); v != "" {
		cfg.JSONFile = v
		setEnv("json_file")
	}
	if v := os.Getenv("TODOMD_OPEN"); v != "" {
		cfg.Open = boolFromString(v)
		setEnv("open")
	}
	if v := os.Getenv("TODOMD_PROMPT_DIR"); v != "" {
		cfg.PromptDir = v
		setEnv("prompt_dir")
	}

	// Summarizer
	if v := os.Getenv("TODOMD_SUMMARIZER"); v != "" {
		cfg.Summarizer.Provider = v
		setEnv("summarizer.provider")
	}
	if v := os.Getenv("TODOMD_MODEL"); v != "" {
		cfg.Summarizer.Model = v
		setEnv("summarizer.model")
	}
	if v := os.Getenv("TODOMD_BASE_URL"); v != "" {
		cfg.Summarizer.BaseURL = v
		setEnv("summarizer.base_url")
	}
	if v := os.Getenv("TODOMD_API_KEY_ENV"); v != "" {
		cfg.Summarizer.APIKeyEnv = v
		setEnv("summarizer.api_key_env")
	}
	if v := os.Getenv("TODOMD_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Summarizer.TimeoutSeconds = i
			setEnv("summarizer.timeout_seconds")
		} else {
			warn("TODOMD_TIMEOUT", v)
		}
	}
	if v := os.Getenv("TODOMD_RPM"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Summarizer.RequestsPerMinute = f
			setEnv("summarizer.requests_per_minute")
		} else {
			warn("TODOMD_RPM", v)
		}
	}
	if v := os.Getenv("TODOMD_ON_ERROR"); v != "" {
		cfg.Summarizer.OnError = v
		setEnv("summarizer.on_error")
	}

	// Logging configuration
	if v := os.Getenv("TODOMD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv("TODOMD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if v := os.Getenv("TODOMD_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TODOMD_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
}
