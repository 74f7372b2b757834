// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.todomd/todomd.toml or OS-specific config directory)
// 3. Project config file (todomd.toml or .todomd.toml in the working directory)
// 4. Environment variables (TODOMD_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.todomd/todomd.toml (preferred)
// - Windows: %APPDATA%\todomd\todomd.toml
// - macOS: ~/Library/Application Support/todomd/todomd.toml
// - Linux/BSD: $XDG_CONFIG_HOME/todomd/todomd.toml or ~/.config/todomd/todomd.toml
//
// Project-level config locations (overrides user config):
// - ./todomd.toml (preferred)
// - ./.todomd.toml
//
// API credentials are never read from config files. The summarizer reads
// them from the environment variable named by summarizer.api_key_env.
package config
