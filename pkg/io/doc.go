// Package io reads and writes the positional equipment format.
//
// # Overview
//
// Equipment data is exchanged as a JSON array of arrays. Each inner array is
// one equipment record whose fields are identified only by position:
//
//	[
//	  [0, 1042, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, [[3, 10], [7, 5]]],
//	  [1, 2001, 0]
//	]
//
// Two positions carry meaning for attribute editing:
//
//   - field 1 ([ItemIDField]): the equipment type identifier
//   - field 16 ([AttributesField]): a list of [attributeId, value] pairs
//
// Every other field is opaque and preserved byte-for-byte.
//
// # Import
//
// [ParseRecords], [ReadRecords] and [ImportFile] decode the outer array into
// [Record] values with named fields. The positional layout does not leak out
// of this package: callers see [Record.ItemID], [Record.Attributes] and
// [Record.HasAttributes]. A record without a field 16, or whose field 16 is
// not an array, simply has no attributes.
//
// Decoding fails with an [errors.ErrCodeMalformedInput] error when the text
// is not JSON, the top-level value is not an array, a record is not an array,
// or an attribute entry is not an [id, value] pair with an integer id.
//
// # Export
//
// [WriteJSON] and [ExportFile] encode records back to the positional format
// with two-space indentation. Use [Record.WithAttributes] to obtain a copy of
// a record whose field 16 has been rebuilt from integer pairs.
//
// [errors.ErrCodeMalformedInput]: github.com/matzehuels/attredit/pkg/errors.ErrCodeMalformedInput
package io
