package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/todomd/internal/todo"
)

func sampleData() Data {
	return NewData(todo.Record{
		Comment:  "# TODO: handle empty input (Author: jane)",
		Context:  "def f(xs):\n    # TODO: handle empty input (Author: jane)\n    return xs[0]\n",
		Line:     2,
		Path:     "pkg/f.py",
		FileType: "py",
	})
}

// TestStoreLoad tests loading bundled and overridden prompts.
func TestStoreLoad(t *testing.T) {
	store := NewStore("")
	content, err := store.Load(SystemPrompt)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if content != bundledSystemPrompt {
		t.Error("Load() without a dir should return the bundled prompt")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SystemPrompt), []byte("custom"), 0644); err != nil {
		t.Fatalf("write prompt: %v", err)
	}
	store = NewStore(dir)
	if got, _ := store.Load(SystemPrompt); got != "custom" {
		t.Errorf("Load() = %q, want override", got)
	}
	if got, _ := store.Load(TodoPrompt); got != bundledTodoPrompt {
		t.Error("missing override should fall back to the bundled prompt")
	}

	if _, err := store.Load(""); err == nil {
		t.Error("Load() with empty name expected error, got nil")
	}
	if _, err := store.Load("nope.txt"); err == nil {
		t.Error("Load() of unknown prompt expected error, got nil")
	}
}

// TestRenderTodoPrompt tests rendering the per-record prompt.
func TestRenderTodoPrompt(t *testing.T) {
	r := NewRenderer(NewStore(""))
	out, err := r.Render(TodoPrompt, sampleData())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{
		"The comment is:\n# TODO: handle empty input (Author: jane)\n",
		"    return xs[0]\n",
		"The line number is:\n2\n",
		"The file path is:\npkg/f.py\n",
		"The file type is:\npy\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered prompt missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSystemPrompt(t *testing.T) {
	r := NewRenderer(NewStore(""))
	out, err := r.Render(SystemPrompt, Data{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "by @jane") {
		t.Error("system prompt should describe the author suffix")
	}
}

// TestRenderMissingRequiredVariable tests required field checks.
func TestRenderMissingRequiredVariable(t *testing.T) {
	r := NewRenderer(NewStore(""))
	tests := []struct {
		name   string
		mutate func(*Data)
		want   string
	}{
		{"comment", func(d *Data) { d.Comment = "" }, "Comment"},
		{"line", func(d *Data) { d.Line = 0 }, "Line"},
		{"path", func(d *Data) { d.Path = "" }, "Path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sampleData()
			tt.mutate(&d)
			_, err := r.Render(TodoPrompt, d)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Render() error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestRenderBadTemplate(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, TodoPrompt), []byte("{{.Missing}}"), 0644); err != nil {
		t.Fatalf("write prompt: %v", err)
	}
	r := NewRenderer(NewStore(dir))
	if _, err := r.Render(TodoPrompt, sampleData()); err == nil {
		t.Error("Render() with unknown field expected error, got nil")
	}

	var nilRenderer *Renderer
	if _, err := nilRenderer.Render(TodoPrompt, sampleData()); err == nil {
		t.Error("nil renderer expected error, got nil")
	}
}
