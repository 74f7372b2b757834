package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todomd configuration file
# Values can be overridden by environment variables (TODOMD_*) or CLI flags.

# File type to scan: the extension without the dot (see "todomd filetypes")
filetype = "tex"

# Markdown checklist written to the working directory
output_file = "todo.md"

# Optional JSON export of the scan result
# json_file = "todo.json"

# Open the checklist viewer after writing (requires a terminal)
open = false

# Directory with system.txt / todo.txt overriding the bundled prompts
# prompt_dir = "~/.todomd/prompts"

# Log level (debug, info, warn, error) and format (text, json, logfmt)
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false

# Extra or overriding comment prefixes, keyed by file type
[comment_prefixes]
# vue = "<!--"
# lua = "--"

[summarizer]
# none: keep the raw comment, strip: offline cleanup, openai or gemini: LLM summary
provider = "openai"

# Model name (default gpt-3.5-turbo for openai, gemini-2.0-flash for gemini)
# model = "gpt-3.5-turbo"

# API base URL for OpenAI-compatible servers
# base_url = "https://api.openai.com/v1"

# Environment variable holding the API key (default OPENAI_API_KEY / GEMINI_API_KEY).
# A .env file in the working directory is loaded automatically.
# api_key_env = "OPENAI_API_KEY"

# Per-request timeout in seconds (0 disables)
timeout_seconds = 60

# Throttle requests (0 disables)
requests_per_minute = 0

# abort: stop on the first failed summary, skip: fall back to the raw comment
on_error = "abort"
`
}
