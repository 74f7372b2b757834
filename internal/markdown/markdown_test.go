package markdown

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nibzard/todomd/internal/todo"
)

func sampleIndex() *todo.Index {
	idx := todo.NewIndex()
	idx.Add(todo.Record{Comment: "# TODO fix this", Line: 2, Path: "a.py", FileType: "py"})
	idx.Add(todo.Record{Comment: "# todo: later", Line: 7, Path: "sub/b.py", FileType: "py"})
	idx.Add(todo.Record{Comment: "#TODO again", Line: 9, Path: "sub/b.py", FileType: "py"})
	return idx
}

func TestRenderIdentity(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(context.Background(), &buf, sampleIndex(), nil, Options{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := Header +
		"## a.py\n" +
		"- [ ] # TODO fix this (a.py:2)\n" +
		"\n" +
		"## sub/b.py\n" +
		"- [ ] # todo: later (sub/b.py:7)\n" +
		"- [ ] #TODO again (sub/b.py:9)\n" +
		"\n"
	if got := buf.String(); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderEmptyIndex(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(context.Background(), &buf, todo.NewIndex(), nil, Options{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if buf.String() != Header {
		t.Errorf("empty index should render only the header, got %q", buf.String())
	}
}

func TestRenderTrimsOnePeriod(t *testing.T) {
	idx := todo.NewIndex()
	idx.Add(todo.Record{Comment: "c", Line: 1, Path: "x.go"})
	fn := func(context.Context, todo.Record) (string, error) { return "Fix this..", nil }

	var buf bytes.Buffer
	if err := Render(context.Background(), &buf, idx, fn, Options{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "- [ ] Fix this. (x.go:1)\n") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRenderProgress(t *testing.T) {
	var got [][2]int
	opts := Options{OnProgress: func(done, total int, _ todo.Record) {
		got = append(got, [2]int{done, total})
	}}
	if err := Render(context.Background(), &bytes.Buffer{}, sampleIndex(), nil, opts); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(got) != len(want) {
		t.Fatalf("progress = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("progress[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRenderSequentialOrder(t *testing.T) {
	var seen []int
	fn := func(_ context.Context, rec todo.Record) (string, error) {
		seen = append(seen, rec.Line)
		return rec.Comment, nil
	}
	if err := Render(context.Background(), &bytes.Buffer{}, sampleIndex(), fn, Options{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(seen) != 3 || seen[0] != 2 || seen[1] != 7 || seen[2] != 9 {
		t.Errorf("summarizer call order = %v, want [2 7 9]", seen)
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Render(ctx, &bytes.Buffer{}, sampleIndex(), nil, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestWriteIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.md")
	for i := 0; i < 2; i++ {
		if err := Write(context.Background(), path, sampleIndex(), nil, Options{}); err != nil {
			t.Fatalf("Write() #%d error = %v", i, err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(data), "# Refactoring tasks") != 1 {
		t.Error("second write should replace, not append")
	}
	if strings.Count(string(data), "## ") != 2 {
		t.Errorf("want 2 file headings, got %d", strings.Count(string(data), "## "))
	}
}

func TestWriteNewFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "todo.md")
	if err := Write(context.Background(), path, sampleIndex(), nil, Options{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0o644 {
		t.Errorf("mode = %v, want 0644", got)
	}
}

func TestWriteFailureKeepsPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.md")
	if err := os.WriteFile(path, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("service down")
	fn := func(context.Context, todo.Record) (string, error) { return "", boom }

	err := Write(context.Background(), path, sampleIndex(), fn, Options{})
	if !errors.Is(err, boom) {
		t.Fatalf("Write() error = %v, want %v", err, boom)
	}
	if !strings.Contains(err.Error(), "a.py:2") {
		t.Errorf("error %q should name the record", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "previous" {
		t.Errorf("output file changed to %q", data)
	}
}

func TestItemEmptySummary(t *testing.T) {
	rec := todo.Record{Path: "a.py", Line: 2}
	if got := Item("", rec); got != "- [ ]  (a.py:2)" {
		t.Errorf("Item() = %q", got)
	}
}

func TestTrimPeriod(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Fix this", "Fix this"},
		{"Fix this.", "Fix this"},
		{"Fix this..", "Fix this."},
		{".", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TrimPeriod(tt.in); got != tt.want {
			t.Errorf("TrimPeriod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
