// Package scan walks a project tree and collects TODO comments.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/nibzard/todomd/internal/keywords"
	"github.com/nibzard/todomd/internal/todo"
)

// ContextRadius is the number of lines kept on each side of a match.
const ContextRadius = 20

// ErrNotText reports file content that is not valid UTF-8.
var ErrNotText = errors.New("file is not valid UTF-8 text")

// FileReadError is returned when a matching file cannot be read as text.
// It aborts the scan.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileReadError) Unwrap() error {
	return e.Err
}

// Progress is reported after every file read, and once more with Done set.
// On the final report Files and Matches hold the scan totals.
type Progress struct {
	Scanned int    // files read so far
	Path    string // last file read, relative to the root
	Files   int    // files with at least one match so far
	Matches int    // matches so far
	Done    bool
}

// Options configures a scan.
type Options struct {
	// OnProgress, if set, receives progress reports.
	OnProgress func(Progress)
}

// Scan walks root recursively, reads every file named *.<set.FileType> and
// returns the TODO records found, grouped by relative path.
func Scan(root string, set keywords.MarkerSet, opts Options) (*todo.Index, error) {
	if set.FileType == "" {
		return nil, fmt.Errorf("scan: %w: empty file type", keywords.ErrUnsupportedFileType)
	}
	// WalkDir does not descend into a symlinked root.
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	suffix := "." + set.FileType
	idx := todo.NewIndex()
	var p Progress

	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		if !d.Type().IsRegular() {
			// Follow symlinks to files, skip everything else.
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		recs, err := scanFile(path, rel, set)
		if err != nil {
			return err
		}
		for _, r := range recs {
			idx.Add(r)
		}

		p.Scanned++
		p.Path = rel
		p.Matches += len(recs)
		if len(recs) > 0 {
			p.Files++
		}
		if opts.OnProgress != nil {
			opts.OnProgress(p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.Path = ""
	p.Done = true
	if opts.OnProgress != nil {
		opts.OnProgress(p)
	}
	return idx, nil
}

// scanFile returns the records for one file in line order.
func scanFile(path, rel string, set keywords.MarkerSet) ([]todo.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Path: rel, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &FileReadError{Path: rel, Err: ErrNotText}
	}

	lines := SplitLines(string(data))
	var recs []todo.Record
	for i, line := range lines {
		if !set.Match(line) {
			continue
		}
		recs = append(recs, todo.Record{
			Comment:  strings.TrimSpace(line),
			Context:  Window(lines, i, ContextRadius),
			Line:     i + 1,
			Path:     rel,
			FileType: set.FileType,
		})
	}
	return recs, nil
}

// SplitLines splits s into lines, keeping each line's terminator.
// A final line without a newline is kept; no empty trailing line is added.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Window joins up to radius lines before and after lines[i], plus lines[i]
// itself. The window is clipped at both ends of the slice.
func Window(lines []string, i, radius int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	start := i - radius
	if start < 0 {
		start = 0
	}
	end := i + radius + 1
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "")
}
