// Package prompts renders the prompts sent to a summarization service.
package prompts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/nibzard/todomd/internal/todo"
)

const (
	SystemPrompt = "system.txt"
	TodoPrompt   = "todo.txt"
)

const bundledSystemPrompt = `You are an assistant skilled in explaining programming concepts. Your task is
to turn a comment found in a codebase into a helpful, human readable item for a
TODO list. You will get the comment itself, about 40 lines of surrounding
context, the line number, the file path and the file type.

Keep the item short and simple but give the reader enough context to act on it.
Write a single sentence that starts with a verb, for example "Refactor this
function to use a loop instead of recursion" or "Add a check for the edge case
where the list is empty". Remove the TODO keyword from the comment. Do not
include the line number or the file path. Return plain text without markdown
formatting and without a trailing period.

If the comment contains an author tag (such as "Author: jane"), end the sentence
with "by @jane". If there is no author tag, do not mention an author at all and
never write anything like "unknown author".
`

const bundledTodoPrompt = `The comment is:
{{.Comment}}
The context is:
{{.Context}}
The line number is:
{{.Line}}
The file path is:
{{.Path}}
The file type is:
{{.FileType}}
`

var bundled = map[string]string{
	SystemPrompt: bundledSystemPrompt,
	TodoPrompt:   bundledTodoPrompt,
}

// Store loads prompt assets from an optional override directory, falling
// back to the bundled prompts for files that do not exist there.
type Store struct {
	dir string
}

// NewStore creates a prompt store. An empty dir uses only bundled prompts.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the override directory.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads a prompt asset as a string.
func (s *Store) Load(name string) (string, error) {
	if name == "" {
		return "", errors.New("prompt name is empty")
	}
	if s.dir != "" {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read prompt %q: %w", name, err)
		}
	}
	if text, ok := bundled[name]; ok {
		return text, nil
	}
	return "", fmt.Errorf("unknown prompt %q", name)
}

// Data holds prompt template variables.
type Data struct {
	Comment  string
	Context  string
	Line     int
	Path     string
	FileType string
}

// NewData builds prompt data from a scan record.
func NewData(r todo.Record) Data {
	return Data{
		Comment:  r.Comment,
		Context:  r.Context,
		Line:     r.Line,
		Path:     r.Path,
		FileType: r.FileType,
	}
}

// Renderer renders templates with strict missing-key behavior.
type Renderer struct {
	store *Store
}

// NewRenderer creates a prompt renderer.
func NewRenderer(store *Store) *Renderer {
	return &Renderer{store: store}
}

// Render loads and renders a prompt template with required variable checks.
func (r *Renderer) Render(name string, data Data) (string, error) {
	if r == nil || r.store == nil {
		return "", errors.New("prompt renderer is not initialized")
	}
	if err := validateRequired(name, data); err != nil {
		return "", err
	}
	raw, err := r.store.Load(name)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse prompt %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return buf.String(), nil
}

func validateRequired(name string, data Data) error {
	switch name {
	case SystemPrompt:
		return nil
	case TodoPrompt:
		if data.Comment == "" {
			return fmt.Errorf("prompt %q requires Comment", name)
		}
		if data.Line <= 0 {
			return fmt.Errorf("prompt %q requires Line > 0", name)
		}
		if data.Path == "" {
			return fmt.Errorf("prompt %q requires Path", name)
		}
		return nil
	default:
		return fmt.Errorf("unknown prompt %q", name)
	}
}
