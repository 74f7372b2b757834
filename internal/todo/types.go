// Package todo holds the records produced by a scan and their JSON export.
package todo

// Record is one TODO comment found during a scan.
type Record struct {
	// Comment is the matched line with surrounding whitespace removed.
	Comment string `json:"comment"`
	// Context is the verbatim text of the lines around the match,
	// including the matched line and original line endings.
	Context string `json:"context"`
	// Line is the 1-based line number within the file.
	Line int `json:"line"`
	// Path is relative to the scan root, slash separated.
	Path string `json:"path"`
	// FileType is the tag the scan was run with (e.g. "py").
	FileType string `json:"filetype"`
}

// Index groups records by relative file path.
// Files keep first-insertion order; records keep insertion order.
type Index struct {
	order  []string
	byPath map[string][]Record
	count  int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byPath: make(map[string][]Record)}
}

// Add appends a record under its Path.
func (x *Index) Add(r Record) {
	if x.byPath == nil {
		x.byPath = make(map[string][]Record)
	}
	if _, ok := x.byPath[r.Path]; !ok {
		x.order = append(x.order, r.Path)
	}
	x.byPath[r.Path] = append(x.byPath[r.Path], r)
	x.count++
}

// Files returns the file paths in index order.
func (x *Index) Files() []string {
	if x == nil {
		return nil
	}
	out := make([]string, len(x.order))
	copy(out, x.order)
	return out
}

// Records returns the records for path in line order.
func (x *Index) Records(path string) []Record {
	if x == nil {
		return nil
	}
	recs := x.byPath[path]
	out := make([]Record, len(recs))
	copy(out, recs)
	return out
}

// Len returns the number of files in the index.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.order)
}

// Count returns the total number of records.
func (x *Index) Count() int {
	if x == nil {
		return 0
	}
	return x.count
}

// Each calls fn for every record in index order and stops at the first error.
func (x *Index) Each(fn func(Record) error) error {
	if x == nil {
		return nil
	}
	for _, path := range x.order {
		for _, r := range x.byPath[path] {
			if err := fn(r); err != nil {
				return err
			}
		}
	}
	return nil
}
