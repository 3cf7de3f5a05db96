package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/attredit/pkg/catalog"
	"github.com/matzehuels/attredit/pkg/editor"
)

const tuiInput = `[[0,1,0,0,0,0,0,0,0,0,0,0,0,0,0,0,[[3,10],[7,5]]],[0,2]]`

type memorySink struct {
	data string
	err  error
}

func (s *memorySink) Name() string { return "clipboard" }

func (s *memorySink) Write(_ context.Context, data []byte) error {
	if s.err != nil {
		return s.err
	}
	s.data = string(data)
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.AttributeOption{{ID: 3, Name: "STR"}, {ID: 7, Name: "DEX"}}, nil)
}

// send feeds keys to the model in order.
func send(m *editModel, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

// loadedModel returns a model whose initial text has been parsed.
func loadedModel(t *testing.T) *editModel {
	t.Helper()
	m := newEditModel(context.Background(), testCatalog(), editOptions{Text: tuiInput, Debounce: time.Millisecond})
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init() returned no command for non-empty input")
	}
	m.Update(cmd())
	if !m.editor.Loaded() {
		t.Fatalf("initial parse failed: %+v", m.toast)
	}
	return m
}

func rowIDs(m *editModel) []int {
	g, _ := m.editor.Model().Group(0)
	var ids []int
	for _, r := range g.Rows {
		ids = append(ids, r.AttrID)
	}
	return ids
}

func TestDebounceLastWriteWins(t *testing.T) {
	m := newEditModel(context.Background(), testCatalog(), editOptions{Debounce: time.Millisecond})
	if m.focus != paneInput {
		t.Fatal("empty editor should focus the input pane")
	}

	m.Update(key(tuiInput[:10]))
	first := m.seq
	m.Update(key(tuiInput[10:]))
	if m.seq == first {
		t.Fatal("typing did not bump the sequence")
	}

	m.Update(reparseMsg{seq: first})
	if m.editor.Loaded() {
		t.Error("stale tick reparsed")
	}
	if m.toast != nil {
		t.Errorf("stale tick produced a notice: %+v", m.toast)
	}

	m.Update(reparseMsg{seq: m.seq})
	if !m.editor.Loaded() {
		t.Fatalf("latest tick did not parse: %+v", m.toast)
	}
	if got := m.editor.Model().Len(); got != 2 {
		t.Errorf("rows = %d, want 2", got)
	}
}

func TestBlankInputIsNotParsed(t *testing.T) {
	m := newEditModel(context.Background(), testCatalog(), editOptions{})
	m.Update(key(" "))
	m.Update(reparseMsg{seq: m.seq})
	if m.toast != nil {
		t.Errorf("blank input produced a notice: %+v", m.toast)
	}
}

func TestMalformedInputKeepsModel(t *testing.T) {
	m := loadedModel(t)
	before := m.editor.Model()

	m.input.SetValue("[[0,")
	send(m, "ctrl+r")

	if m.editor.Model() != before {
		t.Error("failed parse replaced the model")
	}
	if m.toast == nil || m.toast.Level != editor.LevelError {
		t.Fatalf("toast = %+v, want an error notice", m.toast)
	}
	if !strings.Contains(m.View(), "Invalid input") {
		t.Error("view does not show the error notice")
	}
}

func TestPreviewEditing(t *testing.T) {
	m := loadedModel(t)

	if got := len(m.items()); got != 1 {
		t.Fatalf("collapsed items = %d, want 1", got)
	}
	send(m, "enter")
	if !m.editor.IsExpanded(0) || len(m.items()) != 3 {
		t.Fatalf("enter on a header should expand it, items = %d", len(m.items()))
	}

	send(m, "down", "J")
	if diff := cmp.Diff([]int{7, 3}, rowIDs(m)); diff != "" {
		t.Errorf("after J (-want +got):\n%s", diff)
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (follows the moved row)", m.cursor)
	}

	send(m, "K")
	if diff := cmp.Diff([]int{3, 7}, rowIDs(m)); diff != "" {
		t.Errorf("after K (-want +got):\n%s", diff)
	}

	send(m, "d")
	if diff := cmp.Diff([]int{7}, rowIDs(m)); diff != "" {
		t.Errorf("after d (-want +got):\n%s", diff)
	}

	send(m, "n")
	if diff := cmp.Diff([]int{7, 3}, rowIDs(m)); diff != "" {
		t.Errorf("after n (-want +got):\n%s", diff)
	}
	if cur, _ := m.current(); cur != (item{equipIndex: 0, attrIndex: 1}) {
		t.Errorf("cursor item = %+v, want the new row", cur)
	}

	send(m, "C")
	if m.editor.IsExpanded(0) || m.cursor != 0 {
		t.Errorf("C should collapse and return to the header, cursor = %d", m.cursor)
	}
	send(m, "E")
	if !m.editor.IsExpanded(0) {
		t.Error("E should expand all groups")
	}
}

func TestEditValue(t *testing.T) {
	m := loadedModel(t)
	send(m, "enter", "down", "e")
	if m.mode != modeEditValue {
		t.Fatal("e on a row should start editing")
	}

	send(m, "backspace", "backspace", "42", "enter")
	r, _ := m.editor.Model().Row(0, 0)
	if r.Value != "42" {
		t.Errorf("value = %q, want 42", r.Value)
	}
	if m.mode != modeBrowse {
		t.Error("enter should end editing")
	}

	send(m, "e", "9", "esc")
	r, _ = m.editor.Model().Row(0, 0)
	if r.Value != "42" {
		t.Errorf("esc should discard the edit, value = %q", r.Value)
	}
}

func TestAttributePicker(t *testing.T) {
	m := loadedModel(t)
	send(m, "enter", "down", "a")
	if m.mode != modePickAttr {
		t.Fatal("a on a row should open the picker")
	}

	send(m, "dex")
	if opts := m.pickerOptions(); len(opts) != 1 || opts[0].ID != 7 {
		t.Fatalf("filtered options = %+v", opts)
	}
	send(m, "enter")
	if diff := cmp.Diff([]int{7, 7}, rowIDs(m)); diff != "" {
		t.Errorf("after pick (-want +got):\n%s", diff)
	}

	// Unknown ids are accepted as typed.
	send(m, "a", "99", "enter")
	if diff := cmp.Diff([]int{99, 7}, rowIDs(m)); diff != "" {
		t.Errorf("after typed id (-want +got):\n%s", diff)
	}
}

func TestClipboardExport(t *testing.T) {
	m := loadedModel(t)
	sink := &memorySink{}
	m.clipboard = sink

	_, cmd := m.Update(key("y"))
	if cmd == nil {
		t.Fatal("y returned no command")
	}
	m.Update(cmd())

	if !strings.HasPrefix(sink.data, "[\n  [\n") {
		t.Errorf("clipboard = %q", sink.data)
	}
	if !m.copied {
		t.Error("copied indicator not set")
	}
	if !strings.Contains(m.View(), "Copied") {
		t.Error("view does not show the copied indicator")
	}

	m.Update(copiedResetMsg{seq: m.copiedSeq - 1})
	if !m.copied {
		t.Error("stale reset cleared the indicator")
	}
	m.Update(copiedResetMsg{seq: m.copiedSeq})
	if m.copied {
		t.Error("copied indicator not reset")
	}
}

func TestExportFailure(t *testing.T) {
	m := loadedModel(t)
	m.clipboard = &memorySink{err: context.DeadlineExceeded}

	_, cmd := m.Update(key("y"))
	m.Update(cmd())

	if m.copied {
		t.Error("failed export set the copied indicator")
	}
	if m.toast == nil || m.toast.Level != editor.LevelError {
		t.Errorf("toast = %+v, want an error", m.toast)
	}
	if m.editor.Model().Len() != 2 {
		t.Error("failed export changed the model")
	}
}

func TestExportBeforeLoad(t *testing.T) {
	m := newEditModel(context.Background(), testCatalog(), editOptions{})
	send(m, "tab", "y")
	if m.toast == nil || m.toast.Title != "Nothing to export" {
		t.Errorf("toast = %+v", m.toast)
	}
}

func TestToastExpires(t *testing.T) {
	m := newEditModel(context.Background(), testCatalog(), editOptions{})
	m.showToast(editor.Notice{Title: "one"})
	m.showToast(editor.Notice{Title: "two"})

	m.Update(toastExpiredMsg{seq: m.toastSeq - 1})
	if m.toast == nil || m.toast.Title != "two" {
		t.Fatalf("stale expiry cleared the newer toast: %+v", m.toast)
	}
	m.Update(toastExpiredMsg{seq: m.toastSeq})
	if m.toast != nil {
		t.Error("toast not cleared")
	}
}

func TestQuit(t *testing.T) {
	m := loadedModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
