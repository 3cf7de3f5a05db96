package editor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/attredit/pkg/catalog"
	apperrors "github.com/matzehuels/attredit/pkg/errors"
	"github.com/matzehuels/attredit/pkg/observability"
)

const input = `[
	[0,1,0,0,0,0,0,0,0,0,0,0,0,0,0,0,[[3,10],[7,5]]],
	[0,2],
	[0,3,0,0,0,0,0,0,0,0,0,0,0,0,0,0,[[9,1]]]
]`

func newTestEditor(t *testing.T) (*Editor, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	cat := catalog.New([]catalog.AttributeOption{{ID: 3, Name: "STR"}, {ID: 7, Name: "DEX"}}, nil)
	e := New(cat, rec)
	if err := e.Load(context.Background(), input); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e, rec
}

func attrIDs(e *Editor, equipIndex int) []int {
	g, _ := e.Model().Group(equipIndex)
	ids := make([]int, len(g.Rows))
	for i, r := range g.Rows {
		ids[i] = r.AttrID
	}
	return ids
}

func TestLoadMalformedKeepsPreviousModel(t *testing.T) {
	e, rec := newTestEditor(t)
	ctx := context.Background()

	e.Toggle(0)
	before := e.Model()
	rowsBefore := before.Rows()

	err := e.Load(ctx, `[[0,1,0,0`)
	if !apperrors.Is(err, apperrors.ErrCodeMalformedInput) {
		t.Fatalf("Load error = %v, want MALFORMED_INPUT", err)
	}
	if e.Model() != before {
		t.Error("failed load replaced the model")
	}
	if diff := cmp.Diff(rowsBefore, e.Model().Rows()); diff != "" {
		t.Errorf("rows changed (-want +got):\n%s", diff)
	}
	if !e.IsExpanded(0) {
		t.Error("failed load reset the expanded set")
	}
	if got := rec.Errors(); got != 1 {
		t.Errorf("error notices = %d, want 1", got)
	}
	if rec.Notices[0].Code != apperrors.ErrCodeMalformedInput {
		t.Errorf("notice code = %v, want MALFORMED_INPUT", rec.Notices[0].Code)
	}
}

func TestLoadMalformedBeforeFirstLoad(t *testing.T) {
	rec := &Recorder{}
	e := New(nil, rec)

	if err := e.Load(context.Background(), "not json"); err == nil {
		t.Fatal("expected error")
	}
	if e.Loaded() {
		t.Error("editor should not be loaded")
	}
	if rec.Errors() != 1 {
		t.Errorf("error notices = %d, want 1", rec.Errors())
	}
}

func TestLoadResetsExpanded(t *testing.T) {
	e, _ := newTestEditor(t)
	e.ExpandAll()
	if diff := cmp.Diff([]int{0, 2}, e.Expanded()); diff != "" {
		t.Errorf("Expanded() mismatch (-want +got):\n%s", diff)
	}

	if err := e.Load(context.Background(), input); err != nil {
		t.Fatal(err)
	}
	if len(e.Expanded()) != 0 {
		t.Errorf("Expanded() = %v after reload, want empty", e.Expanded())
	}
}

func TestToggle(t *testing.T) {
	e, _ := newTestEditor(t)

	if !e.Toggle(2) {
		t.Error("first Toggle should expand")
	}
	if e.Toggle(2) {
		t.Error("second Toggle should collapse")
	}
	if e.Toggle(1) {
		t.Error("records without attributes cannot be expanded")
	}
	e.ExpandAll()
	e.CollapseAll()
	if len(e.Expanded()) != 0 {
		t.Error("CollapseAll left groups expanded")
	}
}

func TestApplyOps(t *testing.T) {
	e, rec := newTestEditor(t)
	ctx := context.Background()

	steps := []struct {
		op      string
		changed bool
	}{
		{"up 0:0", false},
		{"down 0:0", true},
		{"down 0:1", false},
		{"set 0:0 42", true},
		{"set-attr 0:1 3", true},
		{"add 0", true},
		{"delete 0:0", true},
	}
	for _, s := range steps {
		op, err := ParseOp(s.op)
		if err != nil {
			t.Fatalf("ParseOp(%q): %v", s.op, err)
		}
		changed, err := e.Apply(ctx, op)
		if err != nil {
			t.Fatalf("Apply(%q): %v", s.op, err)
		}
		if changed != s.changed {
			t.Errorf("Apply(%q) changed = %v, want %v", s.op, changed, s.changed)
		}
	}

	// [3 7] down [7 3], add appends the default 3, delete drops the 7.
	if diff := cmp.Diff([]int{3, 3}, attrIDs(e, 0)); diff != "" {
		t.Errorf("attr ids mismatch (-want +got):\n%s", diff)
	}
	if rec.Errors() != 0 {
		t.Errorf("unexpected error notices: %+v", rec.Notices)
	}
}

func TestApplyErrors(t *testing.T) {
	e, rec := newTestEditor(t)

	_, err := e.Apply(context.Background(), Op{Kind: OpDelete, EquipIndex: 1})
	if !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
	if rec.Errors() != 1 {
		t.Errorf("error notices = %d, want 1", rec.Errors())
	}

	empty := New(nil, nil)
	if _, err := empty.Apply(context.Background(), Op{Kind: OpAdd}); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("Apply before load error = %v, want INVALID_INPUT", err)
	}
}

type failingSink struct{}

func (failingSink) Name() string { return "broken" }
func (failingSink) Write(context.Context, []byte) error {
	return errors.New("device unavailable")
}

func TestExportFailureKeepsModel(t *testing.T) {
	e, rec := newTestEditor(t)
	before := e.Model().Rows()

	err := e.Export(context.Background(), failingSink{})
	if !apperrors.Is(err, apperrors.ErrCodeExportFailure) {
		t.Fatalf("Export error = %v, want EXPORT_FAILURE", err)
	}
	if diff := cmp.Diff(before, e.Model().Rows()); diff != "" {
		t.Errorf("rows changed (-want +got):\n%s", diff)
	}
	if rec.Errors() != 1 {
		t.Errorf("error notices = %d, want 1", rec.Errors())
	}
}

func TestExportInvalidValue(t *testing.T) {
	e, rec := newTestEditor(t)
	ctx := context.Background()
	if _, err := e.Apply(ctx, Op{Kind: OpSetValue, EquipIndex: 0, AttrIndex: 0, Arg: "x"}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := e.Export(ctx, WriterSink{W: &buf})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidValue) {
		t.Fatalf("Export error = %v, want INVALID_VALUE", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written when rendering fails")
	}
	if rec.Errors() != 1 {
		t.Errorf("error notices = %d, want 1", rec.Errors())
	}
}

func TestExportWriter(t *testing.T) {
	e, rec := newTestEditor(t)

	var buf bytes.Buffer
	if err := e.Export(context.Background(), WriterSink{W: &buf, Label: "stdout"}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "[\n  [\n") {
		t.Errorf("output is not two-space indented:\n%s", buf.String())
	}
	if len(rec.Notices) != 1 || rec.Notices[0].Level != LevelInfo {
		t.Errorf("notices = %+v, want one info notice", rec.Notices)
	}
}

func TestExportFile(t *testing.T) {
	e, _ := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "exported_attributes.json")

	if err := e.Export(context.Background(), FileSink{Path: path}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := e.Render()
	if string(data) != string(want)+"\n" {
		t.Errorf("file content mismatch:\n%s", data)
	}
}

func TestClipboardSink(t *testing.T) {
	var got string
	s := &ClipboardSink{writeAll: func(text string) error {
		got = text
		return nil
	}}
	if err := s.Write(context.Background(), []byte("[]")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got != "[]" {
		t.Errorf("clipboard = %q, want %q", got, "[]")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Write(ctx, []byte("[]")); !errors.Is(err, context.Canceled) {
		t.Errorf("Write with cancelled context = %v, want context.Canceled", err)
	}
}

type countingHooks struct {
	observability.NoopEditorHooks
	parses, failures, mutations, exports int
}

func (h *countingHooks) OnParse(_ context.Context, _, _ int, _ time.Duration, err error) {
	h.parses++
	if err != nil {
		h.failures++
	}
}

func (h *countingHooks) OnMutation(context.Context, string, int, int, error) { h.mutations++ }

func (h *countingHooks) OnExport(context.Context, string, int, time.Duration, error) {
	h.exports++
}

func TestHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetEditorHooks(hooks)
	defer observability.Reset()

	e, _ := newTestEditor(t)
	ctx := context.Background()
	_ = e.Load(ctx, "[")
	_, _ = e.Apply(ctx, Op{Kind: OpAdd, EquipIndex: 0})
	_ = e.Export(ctx, WriterSink{W: &bytes.Buffer{}})

	if hooks.parses != 2 || hooks.failures != 1 || hooks.mutations != 1 || hooks.exports != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestDeliverWrapsFailure(t *testing.T) {
	err := Deliver(context.Background(), failingSink{}, []byte("[]"))
	if !apperrors.Is(err, apperrors.ErrCodeExportFailure) {
		t.Fatalf("Deliver() = %v, want EXPORT_FAILURE", err)
	}
	if got := ErrorNotice("Export failed", err).Message; !strings.Contains(got, "device unavailable") {
		t.Errorf("notice message %q lacks the cause", got)
	}

	var buf bytes.Buffer
	if err := Deliver(context.Background(), WriterSink{W: &buf}, []byte("[]")); err != nil {
		t.Fatalf("Deliver() = %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("written = %q", buf.String())
	}
}
