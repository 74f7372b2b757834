// Package keywords builds the literal TODO markers searched for in source files.
package keywords

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnsupportedFileType is returned when a file type has no known comment prefix.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Spellings lists the recognized TODO spellings, in marker order.
var Spellings = []string{"TODO", "Todo", "todo", "ToDo"}

// Table maps a file-type tag (the extension without the dot) to the
// comment prefix used for line comments in that language.
type Table map[string]string

var defaultPrefixes = map[string]string{
	"tex":   "%",
	"py":    "#",
	"sh":    "#",
	"c":     "//",
	"cpp":   "//",
	"java":  "//",
	"js":    "//",
	"ts":    "//",
	"html":  "<!--",
	"css":   "/*",
	"scss":  "/*",
	"sass":  "/*",
	"php":   "//",
	"rb":    "#",
	"cs":    "//",
	"go":    "//",
	"rs":    "//",
	"swift": "//",
	"kt":    "//",
	"clj":   ";;",
	"cljc":  ";;",
	"cljs":  ";;",
	"edn":   ";;",
	"yaml":  "#",
	"json":  "//",
	"xml":   "<!--",
	"md":    "<!--",
	"rst":   "..",
	"toml":  "#",
	"ini":   "#",
	"cfg":   "#",
	"conf":  "#",
}

// DefaultTable returns a copy of the built-in file-type table.
func DefaultTable() Table {
	t := make(Table, len(defaultPrefixes))
	for k, v := range defaultPrefixes {
		t[k] = v
	}
	return t
}

// Merge returns a new table with extra entries added. Entries in extra
// override existing prefixes; empty tags or prefixes are ignored.
func (t Table) Merge(extra map[string]string) Table {
	out := make(Table, len(t)+len(extra))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range extra {
		k = NormalizeFileType(k)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// FileTypes returns the table's tags in sorted order.
func (t Table) FileTypes() []string {
	types := make([]string, 0, len(t))
	for k := range t {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}

// Prefix returns the comment prefix for a file type.
func (t Table) Prefix(fileType string) (string, bool) {
	p, ok := t[NormalizeFileType(fileType)]
	return p, ok
}

// Build returns the marker set for fileType.
func (t Table) Build(fileType string) (MarkerSet, error) {
	ft := NormalizeFileType(fileType)
	prefix, ok := t[ft]
	if !ok {
		return MarkerSet{}, fmt.Errorf("%w: %q", ErrUnsupportedFileType, fileType)
	}

	markers := make([]string, 0, 2*len(Spellings))
	for _, tag := range Spellings {
		markers = append(markers, prefix+" "+tag)
	}
	for _, tag := range Spellings {
		markers = append(markers, prefix+tag)
	}
	return MarkerSet{FileType: ft, Prefix: prefix, markers: markers}, nil
}

// Build returns the marker set for fileType using the built-in table.
func Build(fileType string) (MarkerSet, error) {
	return DefaultTable().Build(fileType)
}

// NormalizeFileType lowercases a tag and drops a leading dot, so ".PY"
// and "py" select the same entry.
func NormalizeFileType(fileType string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fileType), "."))
}

// MarkerSet is the ordered set of markers for one file type.
// "<prefix> <tag>" forms come first, then "<prefix><tag>" forms.
type MarkerSet struct {
	FileType string
	Prefix   string
	markers  []string
}

// Markers returns a copy of the marker strings.
func (m MarkerSet) Markers() []string {
	out := make([]string, len(m.markers))
	copy(out, m.markers)
	return out
}

// Len returns the number of markers.
func (m MarkerSet) Len() int {
	return len(m.markers)
}

// Match reports whether line is a TODO comment: the trimmed line must start
// with the comment prefix and contain at least one marker.
func (m MarkerSet) Match(line string) bool {
	if m.Prefix == "" {
		return false
	}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, m.Prefix) {
		return false
	}
	for _, marker := range m.markers {
		if strings.Contains(trimmed, marker) {
			return true
		}
	}
	return false
}
