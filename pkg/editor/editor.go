// Package editor owns one attribute editing session: the current model,
// the set of expanded groups, and the notices shown to the user.
//
// An [Editor] is the boundary where failures become notices. A parse
// failure emits exactly one error notice and keeps the previous model; an
// export failure emits one error notice and leaves the model untouched.
//
// An Editor is not safe for concurrent use. Callers that share one across
// goroutines (the HTTP server) serialise access themselves.
package editor

import (
	"context"
	"sort"
	"time"

	"github.com/matzehuels/attredit/pkg/attr"
	"github.com/matzehuels/attredit/pkg/catalog"
	apperrors "github.com/matzehuels/attredit/pkg/errors"
	pkgio "github.com/matzehuels/attredit/pkg/io"
	"github.com/matzehuels/attredit/pkg/observability"
)

// Editor is a single editing session.
type Editor struct {
	catalog  *catalog.Catalog
	notifier Notifier
	model    *attr.Model
	expanded map[int]bool
}

// New creates an editor with no data loaded. A nil notifier discards notices.
func New(cat *catalog.Catalog, n Notifier) *Editor {
	if cat == nil {
		cat = catalog.Empty()
	}
	if n == nil {
		n = discard{}
	}
	return &Editor{catalog: cat, notifier: n, expanded: make(map[int]bool)}
}

// SetNotifier replaces the notifier.
func (e *Editor) SetNotifier(n Notifier) {
	if n == nil {
		n = discard{}
	}
	e.notifier = n
}

// Catalog returns the lookup tables.
func (e *Editor) Catalog() *catalog.Catalog { return e.catalog }

// Loaded reports whether a model has been parsed successfully.
func (e *Editor) Loaded() bool { return e.model != nil }

// Model returns the current model, or nil before the first successful load.
func (e *Editor) Model() *attr.Model { return e.model }

// Load parses text and, on success, replaces the model and collapses every
// group. On failure it emits one error notice, returns the error, and keeps
// the previous model and expanded set.
func (e *Editor) Load(ctx context.Context, text string) error {
	start := time.Now()
	m, err := attr.Parse(text, e.catalog)
	if err != nil {
		observability.Editor().OnParse(ctx, 0, 0, time.Since(start), err)
		e.notifier.Notify(ErrorNotice("Invalid input", err))
		return err
	}
	e.replace(m)
	observability.Editor().OnParse(ctx, m.RecordCount(), m.Len(), time.Since(start), nil)
	return nil
}

// LoadRecords replaces the model with one built from already decoded records.
func (e *Editor) LoadRecords(ctx context.Context, records []pkgio.Record) {
	start := time.Now()
	m := attr.FromRecords(records, e.catalog)
	e.replace(m)
	observability.Editor().OnParse(ctx, m.RecordCount(), m.Len(), time.Since(start), nil)
}

func (e *Editor) replace(m *attr.Model) {
	e.model = m
	e.expanded = make(map[int]bool)
}

// Apply executes op. It reports whether the model changed; a move at the
// edge of a group is a successful no-op. Errors are also emitted as notices.
func (e *Editor) Apply(ctx context.Context, op Op) (bool, error) {
	changed, err := e.apply(op)
	observability.Editor().OnMutation(ctx, string(op.Kind), op.EquipIndex, op.AttrIndex, err)
	if err != nil {
		e.notifier.Notify(ErrorNotice("Edit failed", err))
	}
	return changed, err
}

func (e *Editor) apply(op Op) (bool, error) {
	if e.model == nil {
		return false, apperrors.New(apperrors.ErrCodeInvalidInput, "no data loaded")
	}
	m := e.model
	switch op.Kind {
	case OpSetValue:
		err := m.SetValue(op.EquipIndex, op.AttrIndex, op.Arg)
		return err == nil, err
	case OpSetAttribute:
		err := m.SetAttributeText(op.EquipIndex, op.AttrIndex, op.Arg)
		return err == nil, err
	case OpMoveUp:
		return m.MoveUp(op.EquipIndex, op.AttrIndex)
	case OpMoveDown:
		return m.MoveDown(op.EquipIndex, op.AttrIndex)
	case OpDelete:
		err := m.Delete(op.EquipIndex, op.AttrIndex)
		return err == nil, err
	case OpAdd:
		_, err := m.Add(op.EquipIndex)
		return err == nil, err
	default:
		return false, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown operation %q", op.Kind)
	}
}

// Groups returns the grouped rows of the current model, or nil.
func (e *Editor) Groups() []attr.Group {
	if e.model == nil {
		return nil
	}
	return e.model.Groups()
}

// IsExpanded reports whether a group shows its row editors.
func (e *Editor) IsExpanded(equipIndex int) bool { return e.expanded[equipIndex] }

// Toggle flips one group between expanded and collapsed and returns the new
// state. Unknown groups stay collapsed.
func (e *Editor) Toggle(equipIndex int) bool {
	if e.model == nil || !e.model.Editable(equipIndex) {
		return false
	}
	if e.expanded[equipIndex] {
		delete(e.expanded, equipIndex)
		return false
	}
	e.expanded[equipIndex] = true
	return true
}

// ExpandAll expands every group.
func (e *Editor) ExpandAll() {
	if e.model == nil {
		return
	}
	for _, k := range e.model.GroupKeys() {
		e.expanded[k] = true
	}
}

// CollapseAll collapses every group.
func (e *Editor) CollapseAll() {
	e.expanded = make(map[int]bool)
}

// Expanded returns the expanded group keys in ascending order.
func (e *Editor) Expanded() []int {
	keys := make([]int, 0, len(e.expanded))
	for k := range e.expanded {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Render returns the exported JSON without delivering it anywhere.
func (e *Editor) Render() ([]byte, error) {
	if e.model == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "no data loaded")
	}
	return e.model.ExportJSON()
}

// Export renders the model and writes it to sink. It emits a success notice,
// or a single error notice on failure. The model is never modified.
func (e *Editor) Export(ctx context.Context, sink Sink) error {
	data, err := e.Render()
	if err != nil {
		observability.Editor().OnExport(ctx, sink.Name(), 0, 0, err)
		e.notifier.Notify(ErrorNotice("Export failed", err))
		return err
	}
	if err := Deliver(ctx, sink, data); err != nil {
		e.notifier.Notify(ErrorNotice("Export failed", err))
		return err
	}
	e.notifier.Notify(ExportedNotice(sink))
	return nil
}

// Deliver writes already rendered data to sink. Write failures are returned
// as EXPORT_FAILURE. Deliver touches no editor state, so it may run on a
// different goroutine than the one that rendered data.
func Deliver(ctx context.Context, sink Sink, data []byte) error {
	start := time.Now()
	err := sink.Write(ctx, data)
	if err != nil {
		err = apperrors.Wrap(apperrors.ErrCodeExportFailure, err, "write to %s", sink.Name())
	}
	observability.Editor().OnExport(ctx, sink.Name(), len(data), time.Since(start), err)
	return err
}
