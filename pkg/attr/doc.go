// Package attr implements the editable attribute-list model.
//
// # Overview
//
// A [Model] is built from parsed equipment records (see [Parse] and
// [FromRecords]). Every record that carries an attribute list becomes a group,
// keyed by its position in the input (the equip index). Each [attributeId,
// value] pair becomes one row in that group.
//
// Rows live in an arena keyed by a synthetic [uuid.UUID]; a group is an
// ordered slice of row ids. A row's attr index is its position in that slice,
// so the indices of a group are always exactly 0..count-1 whatever sequence
// of mutations has been applied.
//
// # Mutations
//
// All mutations address a row by (equipIndex, attrIndex) and stay inside one
// group:
//
//	m.SetValue(0, 1, "25")
//	m.SetAttribute(0, 1, 7)
//	m.MoveUp(0, 1)   // no-op at position 0
//	m.MoveDown(0, 0) // no-op at the last position
//	m.Delete(0, 0)
//	m.Add(0)         // appended at position count
//
// Addressing a row that does not exist returns a NOT_FOUND error and leaves
// the model unchanged.
//
// # Export
//
// [Model.Export] rebuilds field 16 of every record that had an attribute list
// from its group in order, coercing each value to an integer (see
// [CoerceValue]). Records without an attribute list are copied verbatim.
//
// # Concurrency
//
// A Model is owned by a single caller. It is not safe for concurrent use.
//
// [uuid.UUID]: https://pkg.go.dev/github.com/google/uuid#UUID
package attr
