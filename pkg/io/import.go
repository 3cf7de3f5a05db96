package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	apperrors "github.com/matzehuels/attredit/pkg/errors"
)

// Field positions within an equipment record.
const (
	ItemIDField     = 1
	AttributesField = 16
)

// Pair is one [attributeId, value] entry of a record's attribute list.
// Value holds the JSON number text, or the content of a JSON string.
type Pair struct {
	AttrID int
	Value  string
}

// Record is one equipment entry of the input array.
type Record struct {
	// Fields holds every positional field verbatim.
	Fields []json.RawMessage

	// ItemID is the raw JSON text of field 1, empty if the record is shorter.
	ItemID string

	// HasAttributes reports whether field 16 exists and is an array.
	HasAttributes bool

	// Attributes holds the decoded pairs of field 16, in order.
	Attributes []Pair
}

// ItemNumber returns field 1 as an integer, if it is one.
func (r Record) ItemNumber() (int, bool) {
	n, err := strconv.Atoi(r.ItemID)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := Record{
		Fields:        make([]json.RawMessage, len(r.Fields)),
		ItemID:        r.ItemID,
		HasAttributes: r.HasAttributes,
	}
	for i, f := range r.Fields {
		out.Fields[i] = append(json.RawMessage(nil), f...)
	}
	if r.Attributes != nil {
		out.Attributes = append([]Pair(nil), r.Attributes...)
	}
	return out
}

// ParseRecords decodes a JSON array of equipment records.
//
// The returned records are independent of data.
func ParseRecords(data []byte) ([]Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeMalformedInput, err, "invalid JSON data")
	}
	if raw == nil {
		return nil, apperrors.New(apperrors.ErrCodeMalformedInput, "input must be a JSON array")
	}

	records := make([]Record, 0, len(raw))
	for i, item := range raw {
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeMalformedInput, err, "equipment %d", i)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadRecords reads all of r and decodes it with [ParseRecords].
// ReadRecords does not close r.
func ReadRecords(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return ParseRecords(data)
}

// ImportFile reads the equipment file at path.
func ImportFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRecords(f)
}

func decodeRecord(item json.RawMessage) (Record, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return Record{}, fmt.Errorf("record must be an array")
	}

	rec := Record{Fields: fields}
	if len(fields) > ItemIDField {
		rec.ItemID = string(bytes.TrimSpace(fields[ItemIDField]))
	}
	if len(fields) <= AttributesField {
		return rec, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(fields[AttributesField], &entries); err != nil || entries == nil {
		// Field 16 is present but not a list: nothing to edit.
		return rec, nil
	}

	rec.HasAttributes = true
	rec.Attributes = make([]Pair, 0, len(entries))
	for j, entry := range entries {
		p, err := decodePair(entry)
		if err != nil {
			return Record{}, fmt.Errorf("attribute %d: %w", j, err)
		}
		rec.Attributes = append(rec.Attributes, p)
	}
	return rec, nil
}

func decodePair(entry json.RawMessage) (Pair, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(entry, &parts); err != nil || len(parts) < 2 {
		return Pair{}, fmt.Errorf("expected [id, value] pair")
	}

	var id json.Number
	if err := unmarshalNumber(parts[0], &id); err != nil {
		return Pair{}, fmt.Errorf("id: %w", err)
	}
	attrID, err := strconv.Atoi(id.String())
	if err != nil {
		return Pair{}, fmt.Errorf("id %s is not an integer", id)
	}

	value, err := decodeValue(parts[1])
	if err != nil {
		return Pair{}, fmt.Errorf("value: %w", err)
	}
	return Pair{AttrID: attrID, Value: value}, nil
}

func decodeValue(raw json.RawMessage) (string, error) {
	var n json.Number
	if err := unmarshalNumber(raw, &n); err == nil {
		return n.String(), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	return "", fmt.Errorf("expected number or string, got %s", raw)
}

func unmarshalNumber(raw json.RawMessage, n *json.Number) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	num, ok := v.(json.Number)
	if !ok {
		return fmt.Errorf("expected number, got %s", raw)
	}
	*n = num
	return nil
}
