package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// DefaultExportFile is the file name offered for downloads and file exports.
const DefaultExportFile = "exported_attributes.json"

// IntPair is an exported [attributeId, value] pair.
type IntPair struct {
	AttrID int
	Value  int64
}

// WithAttributes returns a copy of r whose field 16 is replaced by pairs.
// Records shorter than 17 fields are returned unchanged; export never adds an
// attribute list to a record that did not have one.
func (r Record) WithAttributes(pairs []IntPair) Record {
	out := r.Clone()
	if len(out.Fields) <= AttributesField {
		return out
	}

	var b bytes.Buffer
	b.WriteByte('[')
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(p.AttrID))
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(p.Value, 10))
		b.WriteByte(']')
	}
	b.WriteByte(']')

	out.Fields[AttributesField] = json.RawMessage(b.Bytes())
	out.HasAttributes = true
	out.Attributes = make([]Pair, len(pairs))
	for i, p := range pairs {
		out.Attributes[i] = Pair{AttrID: p.AttrID, Value: strconv.FormatInt(p.Value, 10)}
	}
	return out
}

// MarshalRecords encodes records as two-space indented JSON.
func MarshalRecords(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(records, &buf); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteJSON encodes records in the positional format and writes them to w.
// Fields other than rebuilt attribute lists are written as they were read.
func WriteJSON(records []Record, w io.Writer) error {
	out := make([][]json.RawMessage, len(records))
	for i, r := range records {
		out[i] = r.Fields
		if out[i] == nil {
			out[i] = []json.RawMessage{}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes records to a JSON file at path.
func ExportFile(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(records, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
