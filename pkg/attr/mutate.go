package attr

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/attredit/pkg/errors"
)

// SetValue replaces the value of a row. The text is stored as entered;
// it is only interpreted at export time.
func (m *Model) SetValue(equipIndex, attrIndex int, value string) error {
	g, err := m.locate(equipIndex, attrIndex)
	if err != nil {
		return err
	}
	m.rows[g.ids[attrIndex]].value = value
	return nil
}

// SetAttribute replaces the attribute id of a row.
func (m *Model) SetAttribute(equipIndex, attrIndex, attrID int) error {
	g, err := m.locate(equipIndex, attrIndex)
	if err != nil {
		return err
	}
	m.rows[g.ids[attrIndex]].attrID = attrID
	return nil
}

// SetAttributeText parses text as an option id and applies it with
// [Model.SetAttribute].
func (m *Model) SetAttributeText(equipIndex, attrIndex int, text string) error {
	id, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "attribute id %q is not an integer", text)
	}
	return m.SetAttribute(equipIndex, attrIndex, id)
}

// MoveUp swaps a row with its predecessor in the same group. It reports
// false, and changes nothing, when the row is already first.
func (m *Model) MoveUp(equipIndex, attrIndex int) (bool, error) {
	g, err := m.locate(equipIndex, attrIndex)
	if err != nil {
		return false, err
	}
	if attrIndex == 0 {
		return false, nil
	}
	g.ids[attrIndex-1], g.ids[attrIndex] = g.ids[attrIndex], g.ids[attrIndex-1]
	return true, nil
}

// MoveDown swaps a row with its successor in the same group. It reports
// false, and changes nothing, when the row is already last.
func (m *Model) MoveDown(equipIndex, attrIndex int) (bool, error) {
	g, err := m.locate(equipIndex, attrIndex)
	if err != nil {
		return false, err
	}
	if attrIndex == len(g.ids)-1 {
		return false, nil
	}
	g.ids[attrIndex], g.ids[attrIndex+1] = g.ids[attrIndex+1], g.ids[attrIndex]
	return true, nil
}

// Delete removes a row. Rows after it move up one position.
func (m *Model) Delete(equipIndex, attrIndex int) error {
	g, err := m.locate(equipIndex, attrIndex)
	if err != nil {
		return err
	}
	delete(m.rows, g.ids[attrIndex])
	g.ids = append(g.ids[:attrIndex], g.ids[attrIndex+1:]...)
	return nil
}

// Add appends a row to a group with the catalog's default attribute and
// value [DefaultValue]. The new row's attr index equals the previous count.
// Records without an attribute list cannot be extended.
func (m *Model) Add(equipIndex int) (AttributeRow, error) {
	g, err := m.findGroup(equipIndex)
	if err != nil {
		return AttributeRow{}, err
	}
	r := &row{id: uuid.New(), attrID: m.catalog.DefaultAttribute(), value: DefaultValue}
	m.rows[r.id] = r
	g.ids = append(g.ids, r.id)
	return m.view(g, len(g.ids)-1), nil
}
