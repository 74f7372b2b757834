// Package ui provides the terminal checklist viewer.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todomd/internal/markdown"
)

// ErrNotTTY is returned when the viewer is started without a terminal.
var ErrNotTTY = errors.New("viewer requires a TTY")

// RunViewer opens the checklist at path in a full-screen viewer.
func RunViewer(ctx context.Context, path string) error {
	if !IsTTY(os.Stdout) {
		return ErrNotTTY
	}
	model := newViewerModel(path)
	if err := model.load(); err != nil {
		return err
	}
	return runProgram(ctx, model)
}

func runProgram(ctx context.Context, model *viewerModel) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*viewerModel); ok && m.saveErr != nil {
		return m.saveErr
	}
	return nil
}

type viewerModel struct {
	path     string
	doc      *markdown.Document
	loadErr  error
	saveErr  error
	visible  []int // indices into doc.Items
	cursor   int   // index into visible
	openOnly bool
	showHelp bool
	dirty    bool
	quitArm  bool
	status   string
	height   int
}

func newViewerModel(path string) *viewerModel {
	return &viewerModel{path: path}
}

func (m *viewerModel) load() error {
	f, err := os.Open(m.path)
	if err != nil {
		m.loadErr = err
		return err
	}
	defer f.Close()
	doc, err := markdown.Parse(f)
	if err != nil {
		m.loadErr = err
		return err
	}
	m.loadErr = nil
	m.doc = doc
	m.dirty = false
	m.applyFilter()
	return nil
}

func (m *viewerModel) Init() tea.Cmd {
	return nil
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		key := msg.String()
		if key != "q" {
			m.quitArm = false
		}
		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.dirty && !m.quitArm {
				m.quitArm = true
				m.status = "Unsaved changes: press w to save or q again to quit"
				return m, nil
			}
			return m, tea.Quit
		case "h", "?":
			m.showHelp = !m.showHelp
		case "j", "down":
			m.move(1)
		case "k", "up":
			m.move(-1)
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = max(len(m.visible)-1, 0)
		case " ", "x":
			m.toggle()
		case "o":
			m.openOnly = true
			m.applyFilter()
		case "a":
			m.openOnly = false
			m.applyFilter()
		case "w":
			m.save()
		case "r":
			if m.dirty {
				m.status = "Unsaved changes: save with w before reloading"
				return m, nil
			}
			if err := m.load(); err != nil {
				m.status = "Reload failed: " + err.Error()
			} else {
				m.status = "Reloaded"
			}
		}
	}
	return m, nil
}

func (m *viewerModel) move(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m *viewerModel) toggle() {
	if m.doc == nil || len(m.visible) == 0 {
		return
	}
	if err := m.doc.Toggle(m.visible[m.cursor]); err != nil {
		m.status = err.Error()
		return
	}
	m.dirty = true
	m.status = ""
	if m.openOnly {
		m.applyFilter()
	}
}

func (m *viewerModel) save() {
	if m.doc == nil {
		return
	}
	if err := m.doc.Save(m.path); err != nil {
		m.saveErr = err
		m.status = "Save failed: " + err.Error()
		return
	}
	m.saveErr = nil
	m.dirty = false
	m.status = "Saved " + m.path
}

// applyFilter rebuilds the visible item list and keeps the cursor in range.
func (m *viewerModel) applyFilter() {
	m.visible = m.visible[:0]
	if m.doc == nil {
		m.cursor = 0
		return
	}
	for i, item := range m.doc.Items {
		if m.openOnly && item.Checked {
			continue
		}
		m.visible = append(m.visible, i)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m *viewerModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.path)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.status)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString("Error loading checklist:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.status)
		return b.String()
	}
	if m.doc == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.status)
		return b.String()
	}

	writeOverview(&b, m.doc, m.openOnly, m.dirty)
	m.writeItems(&b)
	writeFooter(&b, m.status)
	return b.String()
}

// writeItems renders the visible items grouped by section, scrolled so the
// cursor stays on screen.
func (m *viewerModel) writeItems(b *strings.Builder) {
	if len(m.visible) == 0 {
		if m.openOnly {
			b.WriteString("  No open items. Press a to show all.\n\n")
		} else {
			b.WriteString("  No items.\n\n")
		}
		return
	}

	start, end := 0, len(m.visible)
	if rows := m.height - 8; m.height > 0 && rows > 0 && rows < len(m.visible) {
		start = m.cursor - rows/2
		if start < 0 {
			start = 0
		}
		end = start + rows
		if end > len(m.visible) {
			end = len(m.visible)
			start = end - rows
		}
	}

	section := ""
	for pos := start; pos < end; pos++ {
		item := m.doc.Items[m.visible[pos]]
		if item.Section != section || pos == start {
			section = item.Section
			if section != "" {
				b.WriteString(section + "\n")
			}
		}
		b.WriteString(formatItem(item, pos == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeTitle(b *strings.Builder, path string) {
	title := "todomd: " + path
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, doc *markdown.Document, openOnly, dirty bool) {
	open := doc.Open()
	line := fmt.Sprintf("  Open: %d  Done: %d  Files: %d", open, len(doc.Items)-open, len(doc.Sections))
	if openOnly {
		line += "  (open only, a to show all)"
	}
	if dirty {
		line += "  [modified]"
	}
	b.WriteString(line + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  j, down      Next item\n")
	b.WriteString("  k, up        Previous item\n")
	b.WriteString("  g, G         First / last item\n")
	b.WriteString("  space, x     Toggle item\n")
	b.WriteString("  o            Show open items only\n")
	b.WriteString("  a            Show all items\n")
	b.WriteString("  w            Save\n")
	b.WriteString("  r            Reload from disk\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
}

func writeFooter(b *strings.Builder, status string) {
	if status != "" {
		b.WriteString(status + "\n")
	}
	b.WriteString("Press h for help | w to save | q to quit\n")
}

func formatItem(item markdown.ChecklistItem, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	mark := " "
	if item.Checked {
		mark = "x"
	}
	line := fmt.Sprintf(" %s [%s] %s", cursor, mark, item.Text)
	if item.Ref != "" {
		line += "  " + item.Ref
	}
	return line
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
