package attr

import (
	"math"
	"strconv"
	"strings"

	apperrors "github.com/matzehuels/attredit/pkg/errors"
	pkgio "github.com/matzehuels/attredit/pkg/io"
)

// CoerceValue converts a row value to the integer written on export.
//
// Surrounding whitespace is ignored. Integers are taken as-is; finite
// decimal numbers are truncated toward zero ("3.7" -> 3). Anything else,
// including the empty string, is rejected.
func CoerceValue(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return 0, false
	}
	return int64(t), true
}

// Export returns a copy of the parsed records with every attribute list
// rebuilt from the current rows. If any value cannot be coerced, Export
// returns an INVALID_VALUE error naming the first offending row and
// nothing else.
func (m *Model) Export() ([]pkgio.Record, error) {
	out := make([]pkgio.Record, len(m.records))
	for i, rec := range m.records {
		g, ok := m.groups[i]
		if !ok {
			out[i] = rec.Clone()
			continue
		}
		pairs := make([]pkgio.IntPair, len(g.ids))
		for j, id := range g.ids {
			r := m.rows[id]
			v, ok := CoerceValue(r.value)
			if !ok {
				verr := &apperrors.ValueError{EquipIndex: i, AttrIndex: j, Value: r.value}
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidValue, verr, "cannot export equipment %d", i)
			}
			pairs[j] = pkgio.IntPair{AttrID: r.attrID, Value: v}
		}
		out[i] = rec.WithAttributes(pairs)
	}
	return out, nil
}

// ExportJSON renders [Model.Export] as two-space indented JSON.
func (m *Model) ExportJSON() ([]byte, error) {
	records, err := m.Export()
	if err != nil {
		return nil, err
	}
	return pkgio.MarshalRecords(records)
}
