package markdown

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func renderSample(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(context.Background(), &buf, sampleIndex(), nil, Options{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.Bytes()
}

func TestParseRendered(t *testing.T) {
	data := renderSample(t)
	doc, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Title != "Refactoring tasks 📋" {
		t.Errorf("Title = %q", doc.Title)
	}
	if len(doc.Sections) != 2 || doc.Sections[0] != "a.py" || doc.Sections[1] != "sub/b.py" {
		t.Errorf("Sections = %v", doc.Sections)
	}
	if len(doc.Items) != 3 {
		t.Fatalf("Items = %d, want 3", len(doc.Items))
	}
	first := doc.Items[0]
	if first.Text != "# TODO fix this" || first.Ref != "a.py:2" || first.Section != "a.py" || first.Checked {
		t.Errorf("Items[0] = %+v", first)
	}
	if doc.Open() != 3 {
		t.Errorf("Open() = %d, want 3", doc.Open())
	}
	if !bytes.Equal(doc.Bytes(), data) {
		t.Error("Bytes() should reproduce the input")
	}
}

func TestToggle(t *testing.T) {
	data := renderSample(t)
	doc, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	if err := doc.Toggle(1); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !doc.Items[1].Checked || doc.Open() != 2 {
		t.Errorf("item 1 should be checked, Open() = %d", doc.Open())
	}
	out := string(doc.Bytes())
	if !strings.Contains(out, "- [x] # todo: later (sub/b.py:7)\n") {
		t.Errorf("toggled line missing:\n%s", out)
	}
	if len(out) != len(data) {
		t.Error("only the checkbox should change")
	}

	if err := doc.Toggle(1); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(doc.Bytes(), data) {
		t.Error("toggling twice should restore the input")
	}

	if err := doc.Toggle(3); err == nil {
		t.Error("Toggle(3) should fail")
	}
	if err := doc.Toggle(-1); err == nil {
		t.Error("Toggle(-1) should fail")
	}
}

func TestParseForeignLines(t *testing.T) {
	in := "# Notes\r\n\r\nsome text\r\n- [X] Done thing\r\n- [ ] Item (weird ref)\r\n* [ ] not an item\r\n"
	doc, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Items) != 2 {
		t.Fatalf("Items = %+v, want 2", doc.Items)
	}
	if !doc.Items[0].Checked || doc.Items[0].Text != "Done thing" || doc.Items[0].Ref != "" {
		t.Errorf("Items[0] = %+v", doc.Items[0])
	}
	if doc.Items[1].Text != "Item (weird ref)" || doc.Items[1].Ref != "" {
		t.Errorf("Items[1] = %+v", doc.Items[1])
	}
	if err := doc.Toggle(0); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(doc.Bytes()), "- [ ] Done thing\r\n") {
		t.Errorf("CRLF line not preserved: %q", doc.Bytes())
	}
}

func TestParseEmpty(t *testing.T) {
	doc, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Items) != 0 || len(doc.Bytes()) != 0 {
		t.Errorf("empty document = %+v", doc)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.md")
	doc, err := Parse(bytes.NewReader(renderSample(t)))
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.Toggle(0); err != nil {
		t.Fatal(err)
	}
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "- [x] # TODO fix this (a.py:2)") {
		t.Errorf("saved file = %q", data)
	}
}
