package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Field is one effective configuration value and where it came from.
type Field struct {
	Name   string
	Value  string
	Source ConfigSource
}

// Describe returns every configurable field of cfg in a stable order.
func Describe(cfg *Config) []Field {
	values := map[string]string{
		"filetype":                       cfg.FileType,
		"comment_prefixes":               formatPairs(cfg.CommentPrefixes),
		"output_file":                    cfg.OutputFile,
		"json_file":                      cfg.JSONFile,
		"open":                           strconv.FormatBool(cfg.Open),
		"prompt_dir":                     cfg.PromptDir,
		"summarizer.provider":            cfg.Summarizer.Provider,
		"summarizer.model":               cfg.Summarizer.Model,
		"summarizer.base_url":            cfg.Summarizer.BaseURL,
		"summarizer.api_key_env":         cfg.Summarizer.KeyEnv(),
		"summarizer.timeout_seconds":     strconv.Itoa(cfg.Summarizer.TimeoutSeconds),
		"summarizer.requests_per_minute": strconv.FormatFloat(cfg.Summarizer.RequestsPerMinute, 'g', -1, 64),
		"summarizer.on_error":            cfg.Summarizer.OnError,
		"log_level":                      cfg.LogLevel,
		"log_format":                     cfg.LogFormat,
		"log_timestamps":                 strconv.FormatBool(cfg.LogTimestamps),
		"log_caller":                     strconv.FormatBool(cfg.LogCaller),
	}

	fields := make([]Field, 0, len(values))
	for _, name := range configFields() {
		source := cfg.Sources[name]
		if source == "" {
			source = SourceDefault
		}
		fields = append(fields, Field{Name: name, Value: values[name], Source: source})
	}
	return fields
}

func formatPairs(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, m[k]))
	}
	return strings.Join(parts, ",")
}
