package markdown

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/nibzard/todomd/internal/utils"
)

var (
	itemLine = regexp.MustCompile(`^- \[([ xX])\] (.*)$`)
	itemRef  = regexp.MustCompile(`^(.*) \(([^()]+:\d+)\)$`)
)

// ChecklistItem is one "- [ ]" line of a checklist file.
type ChecklistItem struct {
	Section string // heading the item belongs to, usually a file path
	Text    string // summary without the reference
	Ref     string // "path:line", empty if the line has none
	Checked bool
	line    int
}

// Document is a parsed checklist. It keeps the raw lines so saving changes
// only the toggled checkboxes.
type Document struct {
	Title    string
	Sections []string
	Items    []ChecklistItem
	lines    []string
}

// Parse reads a checklist file. Lines that are not headings or checklist
// items are kept verbatim.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc := &Document{}
	if len(data) == 0 {
		return doc, nil
	}
	doc.lines = strings.SplitAfter(string(data), "\n")
	if doc.lines[len(doc.lines)-1] == "" {
		doc.lines = doc.lines[:len(doc.lines)-1]
	}

	section := ""
	for i, raw := range doc.lines {
		line := strings.TrimRight(raw, "\r\n")
		switch {
		case strings.HasPrefix(line, "## "):
			section = strings.TrimSpace(line[3:])
			doc.Sections = append(doc.Sections, section)
		case strings.HasPrefix(line, "# "):
			if doc.Title == "" {
				doc.Title = strings.TrimSpace(line[2:])
			}
		default:
			m := itemLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			item := ChecklistItem{
				Section: section,
				Text:    m[2],
				Checked: m[1] != " ",
				line:    i,
			}
			if ref := itemRef.FindStringSubmatch(m[2]); ref != nil {
				item.Text = ref[1]
				item.Ref = ref[2]
			}
			doc.Items = append(doc.Items, item)
		}
	}
	return doc, nil
}

// Toggle flips the checkbox of item i.
func (d *Document) Toggle(i int) error {
	if i < 0 || i >= len(d.Items) {
		return fmt.Errorf("item %d out of range (have %d)", i, len(d.Items))
	}
	item := &d.Items[i]
	item.Checked = !item.Checked
	mark := " "
	if item.Checked {
		mark = "x"
	}
	raw := d.lines[item.line]
	d.lines[item.line] = raw[:3] + mark + raw[4:]
	return nil
}

// Open returns the number of unchecked items.
func (d *Document) Open() int {
	n := 0
	for _, item := range d.Items {
		if !item.Checked {
			n++
		}
	}
	return n
}

// Bytes returns the document content.
func (d *Document) Bytes() []byte {
	return []byte(strings.Join(d.lines, ""))
}

// Save replaces path with the document atomically.
func (d *Document) Save(path string) error {
	if err := utils.WriteFile(path, bytes.NewReader(d.Bytes())); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
