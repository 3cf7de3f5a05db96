package attr

import (
	"github.com/google/uuid"

	"github.com/matzehuels/attredit/pkg/catalog"
	apperrors "github.com/matzehuels/attredit/pkg/errors"
	pkgio "github.com/matzehuels/attredit/pkg/io"
)

// DefaultValue is the value given to newly added rows.
const DefaultValue = "0"

// row is one arena entry. Its position is owned by the group.
type row struct {
	id     uuid.UUID
	attrID int
	value  string
}

type group struct {
	equipIndex int
	name       string
	ids        []uuid.UUID
}

// AttributeRow is the read view of one row.
type AttributeRow struct {
	ID            uuid.UUID `json:"id"`
	EquipIndex    int       `json:"equipIndex"`
	AttrIndex     int       `json:"attrIndex"`
	AttrID        int       `json:"attrId"`
	Value         string    `json:"value"`
	EquipmentName string    `json:"equipmentName"`
	AttrName      string    `json:"attrName"`
}

// Group is the rows of one equipment record in attr-index order.
type Group struct {
	EquipIndex    int            `json:"equipIndex"`
	EquipmentName string         `json:"equipmentName"`
	Rows          []AttributeRow `json:"rows"`
}

// Model is the editable attribute list derived from a set of records.
type Model struct {
	records []pkgio.Record
	catalog *catalog.Catalog
	rows    map[uuid.UUID]*row
	groups  map[int]*group
	order   []int
}

// FromRecords builds a model. Records are deep-copied, so the caller may
// reuse them. A nil catalog behaves like an empty one.
func FromRecords(records []pkgio.Record, cat *catalog.Catalog) *Model {
	if cat == nil {
		cat = catalog.Empty()
	}
	m := &Model{
		records: make([]pkgio.Record, len(records)),
		catalog: cat,
		rows:    make(map[uuid.UUID]*row),
		groups:  make(map[int]*group),
	}
	for i, rec := range records {
		m.records[i] = rec.Clone()
		if !rec.HasAttributes {
			continue
		}
		g := &group{
			equipIndex: i,
			name:       cat.EquipmentName(rec.ItemID),
			ids:        make([]uuid.UUID, 0, len(rec.Attributes)),
		}
		for _, p := range rec.Attributes {
			r := &row{id: uuid.New(), attrID: p.AttrID, value: p.Value}
			m.rows[r.id] = r
			g.ids = append(g.ids, r.id)
		}
		m.groups[i] = g
		m.order = append(m.order, i)
	}
	return m
}

// Parse decodes text and builds a model from it. On failure it returns a
// MALFORMED_INPUT error and no model.
func Parse(text string, cat *catalog.Catalog) (*Model, error) {
	records, err := pkgio.ParseRecords([]byte(text))
	if err != nil {
		return nil, err
	}
	return FromRecords(records, cat), nil
}

// Catalog returns the lookup tables used for display names.
func (m *Model) Catalog() *catalog.Catalog { return m.catalog }

// RecordCount returns the number of equipment records, with or without
// attributes.
func (m *Model) RecordCount() int { return len(m.records) }

// Len returns the total number of rows.
func (m *Model) Len() int { return len(m.rows) }

// GroupKeys returns the equip indices of all editable records in order.
func (m *Model) GroupKeys() []int {
	return append([]int(nil), m.order...)
}

// Editable reports whether the record at equipIndex has an attribute list.
func (m *Model) Editable(equipIndex int) bool {
	_, ok := m.groups[equipIndex]
	return ok
}

// Count returns the number of rows of one group.
func (m *Model) Count(equipIndex int) int {
	if g, ok := m.groups[equipIndex]; ok {
		return len(g.ids)
	}
	return 0
}

// Rows returns every row ordered by equip index, then attr index.
func (m *Model) Rows() []AttributeRow {
	out := make([]AttributeRow, 0, len(m.rows))
	for _, k := range m.order {
		out = append(out, m.groupRows(m.groups[k])...)
	}
	return out
}

// Groups returns one entry per editable record, in input order. Records
// whose attribute list is empty are included with no rows.
func (m *Model) Groups() []Group {
	out := make([]Group, 0, len(m.order))
	for _, k := range m.order {
		g := m.groups[k]
		out = append(out, Group{
			EquipIndex:    g.equipIndex,
			EquipmentName: g.name,
			Rows:          m.groupRows(g),
		})
	}
	return out
}

// Group returns a single group.
func (m *Model) Group(equipIndex int) (Group, bool) {
	g, ok := m.groups[equipIndex]
	if !ok {
		return Group{}, false
	}
	return Group{EquipIndex: g.equipIndex, EquipmentName: g.name, Rows: m.groupRows(g)}, true
}

// Row returns the row at (equipIndex, attrIndex).
func (m *Model) Row(equipIndex, attrIndex int) (AttributeRow, error) {
	g, err := m.locate(equipIndex, attrIndex)
	if err != nil {
		return AttributeRow{}, err
	}
	return m.view(g, attrIndex), nil
}

// Position returns the current address of the row with the given id.
func (m *Model) Position(id uuid.UUID) (equipIndex, attrIndex int, ok bool) {
	if _, exists := m.rows[id]; !exists {
		return 0, 0, false
	}
	for _, k := range m.order {
		for i, rid := range m.groups[k].ids {
			if rid == id {
				return k, i, true
			}
		}
	}
	return 0, 0, false
}

func (m *Model) groupRows(g *group) []AttributeRow {
	out := make([]AttributeRow, len(g.ids))
	for i := range g.ids {
		out[i] = m.view(g, i)
	}
	return out
}

func (m *Model) view(g *group, attrIndex int) AttributeRow {
	r := m.rows[g.ids[attrIndex]]
	return AttributeRow{
		ID:            r.id,
		EquipIndex:    g.equipIndex,
		AttrIndex:     attrIndex,
		AttrID:        r.attrID,
		Value:         r.value,
		EquipmentName: g.name,
		AttrName:      m.catalog.AttributeName(r.attrID),
	}
}

func (m *Model) findGroup(equipIndex int) (*group, error) {
	g, ok := m.groups[equipIndex]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "equipment %d has no attribute list", equipIndex)
	}
	return g, nil
}

func (m *Model) locate(equipIndex, attrIndex int) (*group, error) {
	g, err := m.findGroup(equipIndex)
	if err != nil {
		return nil, err
	}
	if attrIndex < 0 || attrIndex >= len(g.ids) {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "equipment %d has no attribute %d", equipIndex, attrIndex)
	}
	return g, nil
}
