package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/attredit/internal/config"
	"github.com/matzehuels/attredit/pkg/catalog"
	"github.com/matzehuels/attredit/pkg/editor"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	// copiedResetAfter is how long the preview shows "copied" after a
	// clipboard export.
	copiedResetAfter = 2 * time.Second

	// toastDuration is how long a notice stays on screen.
	toastDuration = 4 * time.Second

	// pickerRows is the number of attribute options shown at once.
	pickerRows = 6
)

type pane int

const (
	paneInput pane = iota
	panePreview
)

type mode int

const (
	modeBrowse mode = iota
	modeEditValue
	modePickAttr
)

// item is one visible preview line: a group header when attrIndex < 0,
// otherwise a row of an expanded group.
type item struct {
	equipIndex int
	attrIndex  int
}

func (it item) header() bool { return it.attrIndex < 0 }

// Messages
type (
	// reparseMsg fires after the debounce delay. Only the message carrying
	// the latest sequence number reparses.
	reparseMsg struct{ seq int }

	exportDoneMsg struct {
		sink editor.Sink
		err  error
	}

	copiedResetMsg  struct{ seq int }
	toastExpiredMsg struct{ seq int }
)

// editOptions configures the terminal editor.
type editOptions struct {
	Text       string
	Debounce   time.Duration
	ExportFile string
}

// editModel is the bubbletea model of the interactive editor: a free-text
// input pane on the left and the grouped attribute preview on the right.
type editModel struct {
	ctx     context.Context
	editor  *editor.Editor
	notices *editor.Recorder

	input textarea.Model
	field textinput.Model

	focus    pane
	mode     mode
	debounce time.Duration
	seq      int

	cursor  int
	offset  int
	editing item
	pick    int

	clipboard editor.Sink
	file      editor.Sink

	toast     *editor.Notice
	toastSeq  int
	copied    bool
	copiedSeq int

	width    int
	height   int
	quitting bool
}

func newEditModel(ctx context.Context, cat *catalog.Catalog, opts editOptions) *editModel {
	if opts.Debounce <= 0 {
		opts.Debounce = config.DefaultDebounce
	}
	rec := &editor.Recorder{}

	input := textarea.New()
	input.Placeholder = "Paste the equipment JSON array here..."
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetValue(opts.Text)

	field := textinput.New()
	field.CharLimit = 64

	m := &editModel{
		ctx:       ctx,
		editor:    editor.New(cat, rec),
		notices:   rec,
		input:     input,
		field:     field,
		debounce:  opts.Debounce,
		clipboard: editor.NewClipboardSink(),
		file:      editor.FileSink{Path: opts.ExportFile},
		width:     100,
		height:    30,
	}
	m.resize(m.width, m.height)
	if opts.Text == "" {
		m.input.Focus()
	} else {
		m.focus = panePreview
	}
	return m
}

func (m *editModel) Init() tea.Cmd {
	if strings.TrimSpace(m.input.Value()) != "" {
		seq := m.seq
		return func() tea.Msg { return reparseMsg{seq: seq} }
	}
	return textarea.Blink
}

func (m *editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case reparseMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m, m.reparse(false)

	case exportDoneMsg:
		return m, m.exportDone(msg)

	case copiedResetMsg:
		if msg.seq == m.copiedSeq {
			m.copied = false
		}
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeEditValue:
			return m, m.updateEditValue(msg)
		case modePickAttr:
			return m, m.updatePicker(msg)
		}
		if m.focus == paneInput {
			return m, m.updateInput(msg)
		}
		return m, m.updatePreview(msg)
	}

	var cmd tea.Cmd
	switch {
	case m.mode != modeBrowse:
		m.field, cmd = m.field.Update(msg)
	case m.focus == paneInput:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// Input pane
// =============================================================================

func (m *editModel) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "esc":
		return m.setFocus(panePreview)
	case "ctrl+r":
		m.seq++
		return m.reparse(true)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}

	m.seq++
	seq := m.seq
	return tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return reparseMsg{seq: seq}
	}))
}

// reparse loads the input text. Blank input is ignored unless forced, so an
// empty editor does not greet the user with an error.
func (m *editModel) reparse(force bool) tea.Cmd {
	text := m.input.Value()
	if !force && strings.TrimSpace(text) == "" {
		return nil
	}
	if err := m.editor.Load(m.ctx, text); err == nil {
		m.cursor, m.offset = 0, 0
		m.mode = modeBrowse
	}
	return m.flush()
}

func (m *editModel) setFocus(p pane) tea.Cmd {
	m.focus = p
	if p == paneInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// =============================================================================
// Preview pane
// =============================================================================

func (m *editModel) items() []item {
	var out []item
	for _, g := range m.editor.Groups() {
		out = append(out, item{equipIndex: g.EquipIndex, attrIndex: -1})
		if m.editor.IsExpanded(g.EquipIndex) {
			for _, r := range g.Rows {
				out = append(out, item{equipIndex: g.EquipIndex, attrIndex: r.AttrIndex})
			}
		}
	}
	return out
}

func (m *editModel) current() (item, bool) {
	items := m.items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return item{}, false
	}
	return items[m.cursor], true
}

func (m *editModel) updatePreview(msg tea.KeyMsg) tea.Cmd {
	cur, ok := m.current()
	row := ok && !cur.header()

	switch msg.String() {
	case "q":
		m.quitting = true
		return tea.Quit
	case "tab", "i":
		return m.setFocus(paneInput)
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter", " ":
		if !ok {
			return nil
		}
		if cur.header() {
			m.editor.Toggle(cur.equipIndex)
			return nil
		}
		return m.startEditValue(cur)
	case "E":
		m.editor.ExpandAll()
		m.focusItem(cur)
	case "C":
		m.editor.CollapseAll()
		m.focusItem(item{equipIndex: cur.equipIndex, attrIndex: -1})
	case "e":
		if row {
			return m.startEditValue(cur)
		}
	case "a":
		if row {
			return m.startPicker(cur)
		}
	case "K", "shift+up":
		if row {
			return m.move(cur, editor.OpMoveUp, -1)
		}
	case "J", "shift+down":
		if row {
			return m.move(cur, editor.OpMoveDown, 1)
		}
	case "d", "x", "delete":
		if row {
			cmd := m.apply(editor.Op{Kind: editor.OpDelete, EquipIndex: cur.equipIndex, AttrIndex: cur.attrIndex})
			m.clampCursor()
			return cmd
		}
	case "n", "+":
		if ok {
			return m.add(cur.equipIndex)
		}
	case "y":
		return m.export(m.clipboard)
	case "w":
		return m.export(m.file)
	case "ctrl+r":
		m.seq++
		return m.reparse(true)
	}
	return nil
}

func (m *editModel) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *editModel) clampCursor() {
	n := len(m.items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	height := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
}

// focusItem moves the cursor to target if it is visible.
func (m *editModel) focusItem(target item) {
	for i, it := range m.items() {
		if it == target {
			m.cursor = i
			break
		}
	}
	m.clampCursor()
}

func (m *editModel) apply(op editor.Op) tea.Cmd {
	m.editor.Apply(m.ctx, op)
	return m.flush()
}

func (m *editModel) move(cur item, kind editor.Kind, delta int) tea.Cmd {
	changed, _ := m.editor.Apply(m.ctx, editor.Op{Kind: kind, EquipIndex: cur.equipIndex, AttrIndex: cur.attrIndex})
	if changed {
		m.focusItem(item{equipIndex: cur.equipIndex, attrIndex: cur.attrIndex + delta})
	}
	return m.flush()
}

func (m *editModel) add(equipIndex int) tea.Cmd {
	if _, err := m.editor.Apply(m.ctx, editor.Op{Kind: editor.OpAdd, EquipIndex: equipIndex}); err == nil {
		if !m.editor.IsExpanded(equipIndex) {
			m.editor.Toggle(equipIndex)
		}
		m.focusItem(item{equipIndex: equipIndex, attrIndex: m.editor.Model().Count(equipIndex) - 1})
	}
	return m.flush()
}

// =============================================================================
// Row editing
// =============================================================================

func (m *editModel) startEditValue(cur item) tea.Cmd {
	r, err := m.editor.Model().Row(cur.equipIndex, cur.attrIndex)
	if err != nil {
		return nil
	}
	m.mode = modeEditValue
	m.editing = cur
	m.field.Prompt = "value: "
	m.field.Placeholder = "0"
	m.field.SetValue(r.Value)
	m.field.CursorEnd()
	return m.field.Focus()
}

func (m *editModel) updateEditValue(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.endEdit()
		return nil
	case "enter":
		value := m.field.Value()
		m.endEdit()
		return m.apply(editor.Op{Kind: editor.OpSetValue, EquipIndex: m.editing.equipIndex, AttrIndex: m.editing.attrIndex, Arg: value})
	}
	var cmd tea.Cmd
	m.field, cmd = m.field.Update(msg)
	return cmd
}

func (m *editModel) endEdit() {
	m.mode = modeBrowse
	m.field.Blur()
	m.field.SetValue("")
}

func (m *editModel) startPicker(cur item) tea.Cmd {
	m.mode = modePickAttr
	m.editing = cur
	m.pick = 0
	m.field.Prompt = "attribute: "
	m.field.Placeholder = "type a name or id"
	m.field.SetValue("")
	return m.field.Focus()
}

// pickerOptions returns the catalog options matching the picker filter by
// name or id prefix.
func (m *editModel) pickerOptions() []catalog.AttributeOption {
	filter := strings.ToLower(strings.TrimSpace(m.field.Value()))
	opts := m.editor.Catalog().Attributes()
	if filter == "" {
		return opts
	}
	var out []catalog.AttributeOption
	for _, o := range opts {
		if strings.Contains(strings.ToLower(o.Name), filter) || strings.HasPrefix(strconv.Itoa(o.ID), filter) {
			out = append(out, o)
		}
	}
	return out
}

func (m *editModel) updatePicker(msg tea.KeyMsg) tea.Cmd {
	opts := m.pickerOptions()
	switch msg.String() {
	case "esc":
		m.endEdit()
		return nil
	case "up", "ctrl+p":
		if m.pick > 0 {
			m.pick--
		}
		return nil
	case "down", "ctrl+n":
		if m.pick < len(opts)-1 {
			m.pick++
		}
		return nil
	case "enter":
		arg := strings.TrimSpace(m.field.Value())
		if len(opts) > 0 {
			arg = strconv.Itoa(opts[m.pick].ID)
		}
		m.endEdit()
		return m.apply(editor.Op{Kind: editor.OpSetAttribute, EquipIndex: m.editing.equipIndex, AttrIndex: m.editing.attrIndex, Arg: arg})
	}
	var cmd tea.Cmd
	m.field, cmd = m.field.Update(msg)
	m.pick = 0
	return cmd
}

// =============================================================================
// Export and notices
// =============================================================================

// export renders on the UI goroutine and writes from a command, so a slow
// clipboard never blocks input.
func (m *editModel) export(sink editor.Sink) tea.Cmd {
	if !m.editor.Loaded() {
		return m.showToast(editor.Notice{Level: editor.LevelError, Title: "Nothing to export", Message: "the input has not been parsed yet"})
	}
	data, err := m.editor.Render()
	if err != nil {
		return m.showToast(editor.ErrorNotice("Export failed", err))
	}
	ctx := m.ctx
	return func() tea.Msg {
		return exportDoneMsg{sink: sink, err: editor.Deliver(ctx, sink, data)}
	}
}

func (m *editModel) exportDone(msg exportDoneMsg) tea.Cmd {
	if msg.err != nil {
		return m.showToast(editor.ErrorNotice("Export failed", msg.err))
	}
	toast := m.showToast(editor.ExportedNotice(msg.sink))
	if msg.sink != m.clipboard {
		return toast
	}
	m.copied = true
	m.copiedSeq++
	seq := m.copiedSeq
	return tea.Batch(toast, tea.Tick(copiedResetAfter, func(time.Time) tea.Msg {
		return copiedResetMsg{seq: seq}
	}))
}

// flush shows the last notice the editor emitted, if any.
func (m *editModel) flush() tea.Cmd {
	if len(m.notices.Notices) == 0 {
		return nil
	}
	n := m.notices.Notices[len(m.notices.Notices)-1]
	m.notices.Reset()
	return m.showToast(n)
}

func (m *editModel) showToast(n editor.Notice) tea.Cmd {
	m.toast = &n
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// =============================================================================
// View
// =============================================================================

func (m *editModel) resize(width, height int) {
	m.width, m.height = width, height
	inner := m.paneWidth() - 4
	if inner < 10 {
		inner = 10
	}
	m.input.SetWidth(inner)
	m.input.SetHeight(m.listHeight())
	m.field.Width = inner - 12
	m.clampCursor()
}

func (m *editModel) paneWidth() int {
	return (m.width - 1) / 2
}

func (m *editModel) listHeight() int {
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	return h
}

func (m *editModel) View() string {
	if m.quitting {
		return ""
	}

	header := StyleTitle.Render(appName) + StyleDim.Render("  "+m.summary())
	left := m.box("Input", m.input.View(), m.focus == paneInput && m.mode == modeBrowse)
	right := m.box("Preview", m.previewView(), m.focus == panePreview || m.mode != modeBrowse)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.statusLine(), m.helpLine())
}

func (m *editModel) summary() string {
	model := m.editor.Model()
	if model == nil {
		return "no data"
	}
	return fmt.Sprintf("%d records · %d attributes · %d groups", model.RecordCount(), model.Len(), len(model.GroupKeys()))
}

func (m *editModel) box(title, content string, focused bool) string {
	border := colorDim
	if focused {
		border = colorCyan
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(m.paneWidth() - 2)
	return style.Render(styleHeader.Render(title) + "\n" + content)
}

func (m *editModel) previewView() string {
	items := m.items()
	if len(items) == 0 {
		return listDimStyle.Render("Paste data into the input pane to start.")
	}

	var b strings.Builder
	end := m.offset + m.listHeight()
	if end > len(items) {
		end = len(items)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.itemLine(items[i], i == m.cursor))
		b.WriteString("\n")
		if i == m.cursor && m.mode == modePickAttr {
			b.WriteString(m.pickerView())
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *editModel) itemLine(it item, selected bool) string {
	style := listNormalStyle
	if selected {
		style = listSelectedStyle
	}

	if it.header() {
		g, _ := m.editor.Model().Group(it.equipIndex)
		icon := iconCollapsed
		if m.editor.IsExpanded(it.equipIndex) {
			icon = iconExpanded
		}
		return style.Render(fmt.Sprintf("%s %s", icon, g.EquipmentName)) +
			listDimStyle.Render(fmt.Sprintf("  #%d · %d", it.equipIndex, len(g.Rows)))
	}

	r, err := m.editor.Model().Row(it.equipIndex, it.attrIndex)
	if err != nil {
		return ""
	}
	label := fmt.Sprintf("    %2d  %-20s", r.AttrIndex, r.AttrName)
	if selected && m.mode == modeEditValue {
		return style.Render(label) + " " + m.field.View()
	}
	value := r.Value
	if opt, ok := m.editor.Catalog().Attribute(r.AttrID); ok && opt.Percent() {
		value += "%"
	}
	line := style.Render(label) + " " + StyleNumber.Render(value)
	if selected && m.mode == modePickAttr {
		line += "  " + m.field.View()
	}
	return line
}

func (m *editModel) pickerView() string {
	opts := m.pickerOptions()
	if len(opts) == 0 {
		return listDimStyle.Render("        no match; enter sets the typed id") + "\n"
	}
	start := 0
	if m.pick >= pickerRows {
		start = m.pick - pickerRows + 1
	}
	end := start + pickerRows
	if end > len(opts) {
		end = len(opts)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		line := fmt.Sprintf("        %-20s %s", opts[i].Name, strconv.Itoa(opts[i].ID))
		if i == m.pick {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *editModel) statusLine() string {
	var parts []string
	if m.copied {
		parts = append(parts, StyleSuccess.Render(iconSuccess+" Copied"))
	}
	if m.toast != nil {
		parts = append(parts, renderNotice(m.toast.Title, m.toast.Message, m.toast.Level == editor.LevelError))
	}
	return strings.Join(parts, "  ")
}

func (m *editModel) helpLine() string {
	switch {
	case m.mode == modeEditValue:
		return listDimStyle.Render("enter save  esc cancel")
	case m.mode == modePickAttr:
		return listDimStyle.Render("type to filter  ↑/↓ choose  enter set  esc cancel")
	case m.focus == paneInput:
		return listDimStyle.Render("tab preview  ctrl+r parse now  ctrl+c quit")
	}
	return listDimStyle.Render("↑/↓ move  ⏎ toggle/edit  a attribute  K/J reorder  d delete  n add  E/C expand/collapse all  y copy  w write  tab input  q quit")
}
