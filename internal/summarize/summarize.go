// Package summarize turns TODO records into the short text shown in the
// checklist. A summarizer is a Func; the LLM-backed ones are built from a
// Client and the prompt templates.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/todomd/internal/prompts"
	"github.com/nibzard/todomd/internal/todo"
)

// ErrMissingAPIKey is returned when a provider needs a key that is not set.
var ErrMissingAPIKey = errors.New("missing API key")

// ErrEmptyResponse is returned when a reply carries no choice or candidate
// at all. An empty text is passed through unchanged.
var ErrEmptyResponse = errors.New("empty response")

// Func summarizes one record. Calls are made one at a time, in index order.
type Func func(ctx context.Context, rec todo.Record) (string, error)

// Identity returns the raw comment unchanged.
func Identity(_ context.Context, rec todo.Record) (string, error) {
	return rec.Comment, nil
}

// Client sends one prompt pair to a text generation service.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Name() string
}

// ServiceError reports a failed or malformed summarization call.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s summarizer: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// FromClient builds a Func that renders the system and todo prompts for a
// record and returns the client's answer with surrounding whitespace removed.
func FromClient(c Client, r *prompts.Renderer) Func {
	return func(ctx context.Context, rec todo.Record) (string, error) {
		data := prompts.NewData(rec)
		system, err := r.Render(prompts.SystemPrompt, data)
		if err != nil {
			return "", err
		}
		user, err := r.Render(prompts.TodoPrompt, data)
		if err != nil {
			return "", err
		}

		out, err := c.Complete(ctx, system, user)
		if err != nil {
			var se *ServiceError
			if errors.As(err, &se) {
				return "", err
			}
			return "", &ServiceError{Provider: c.Name(), Err: err}
		}
		return strings.TrimSpace(out), nil
	}
}

// SkipOnError wraps fn so a failed record falls back to its raw comment.
// onErr, if set, is told about every skipped record. Cancellation is still
// returned as an error.
func SkipOnError(fn Func, onErr func(todo.Record, error)) Func {
	return func(ctx context.Context, rec todo.Record) (string, error) {
		out, err := fn(ctx, rec)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return "", err
		}
		if onErr != nil {
			onErr(rec, err)
		}
		return rec.Comment, nil
	}
}
