// Package markdown writes the TODO checklist and reads it back for the viewer.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/todomd/internal/summarize"
	"github.com/nibzard/todomd/internal/todo"
	"github.com/nibzard/todomd/internal/utils"
)

// Header opens every checklist file.
const Header = "\n# Refactoring tasks 📋\n\nGet yourself a cup of coffee and happy refactoring! 🚀\n\n"

// Options configures rendering.
type Options struct {
	// OnProgress, if set, is called after each record is written.
	OnProgress func(done, total int, rec todo.Record)
}

// TrimPeriod removes exactly one trailing period.
func TrimPeriod(s string) string {
	return strings.TrimSuffix(s, ".")
}

// Item formats one checklist line without its newline.
func Item(summary string, rec todo.Record) string {
	return fmt.Sprintf("- [ ] %s (%s:%d)", TrimPeriod(summary), rec.Path, rec.Line)
}

// Render writes the checklist for idx to w. Every record is summarized with
// fn, sequentially and in index order. The first summarizer error stops
// rendering and is returned with the record's location.
func Render(ctx context.Context, w io.Writer, idx *todo.Index, fn summarize.Func, opts Options) error {
	if fn == nil {
		fn = summarize.Identity
	}
	if _, err := io.WriteString(w, Header); err != nil {
		return err
	}

	total := idx.Count()
	done := 0
	for _, path := range idx.Files() {
		if _, err := fmt.Fprintf(w, "## %s\n", path); err != nil {
			return err
		}
		for _, rec := range idx.Records(path) {
			if err := ctx.Err(); err != nil {
				return err
			}
			summary, err := fn(ctx, rec)
			if err != nil {
				return fmt.Errorf("summarize %s:%d: %w", rec.Path, rec.Line, err)
			}
			if _, err := io.WriteString(w, Item(summary, rec)+"\n"); err != nil {
				return err
			}
			done++
			if opts.OnProgress != nil {
				opts.OnProgress(done, total, rec)
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write renders the checklist in memory and then replaces path atomically.
// On error the previous content of path is left untouched.
func Write(ctx context.Context, path string, idx *todo.Index, fn summarize.Func, opts Options) error {
	var buf bytes.Buffer
	if err := Render(ctx, &buf, idx, fn, opts); err != nil {
		return err
	}
	if err := utils.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
