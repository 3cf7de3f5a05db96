package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/attredit/pkg/errors"
)

// Document keys used when a catalog file holds a table rather than a bare list.
const (
	keyAttributes = "attributes"
	keyEquipment  = "equipment"
)

// Load reads the attribute and equipment tables. Either path may be empty,
// in which case that table is empty.
func Load(attributesPath, equipmentPath string) (*Catalog, error) {
	var (
		attrs []AttributeOption
		equip []EquipmentOption
		err   error
	)
	if attributesPath != "" {
		if attrs, err = LoadAttributes(attributesPath); err != nil {
			return nil, err
		}
	}
	if equipmentPath != "" {
		if equip, err = LoadEquipment(equipmentPath); err != nil {
			return nil, err
		}
	}
	return New(attrs, equip), nil
}

// LoadAttributes reads attribute options from a .json, .toml, .yaml or .yml
// file. The file holds either a bare list of options or a document with an
// "attributes" list.
func LoadAttributes(path string) ([]AttributeOption, error) {
	items, err := loadList(path, keyAttributes)
	if err != nil {
		return nil, err
	}
	out := make([]AttributeOption, 0, len(items))
	for i, item := range items {
		id, name, err := idAndName(item)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "%s: attribute %d", path, i)
		}
		out = append(out, AttributeOption{
			ID:         id,
			Name:       name,
			IsPercent:  intField(item, "isPercent", "is_percent"),
			ColorPaint: intField(item, "colorPaint", "color_paint"),
		})
	}
	return out, nil
}

// LoadEquipment reads equipment options. See [LoadAttributes] for the format;
// the document key is "equipment".
func LoadEquipment(path string) ([]EquipmentOption, error) {
	items, err := loadList(path, keyEquipment)
	if err != nil {
		return nil, err
	}
	out := make([]EquipmentOption, 0, len(items))
	for i, item := range items {
		id, name, err := idAndName(item)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "%s: equipment %d", path, i)
		}
		opt := EquipmentOption{ID: id, Name: name}
		for k, v := range item {
			if k == "id" || k == "name" {
				continue
			}
			if opt.Extra == nil {
				opt.Extra = make(map[string]any)
			}
			opt.Extra[k] = v
		}
		out = append(out, opt)
	}
	return out, nil
}

func loadList(path, key string) ([]map[string]any, error) {
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := decode(path, data)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if m, ok := doc.(map[string]any); ok {
		doc, ok = m[key]
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: missing %q list", path, key)
		}
	}
	return toItems(path, doc)
}

func decode(path string, data []byte) (any, error) {
	var doc any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	case ".toml":
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		doc = m
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.New(apperrors.ErrCodeUnsupported, "unsupported catalog format %q", ext)
	}
	return doc, nil
}

func toItems(path string, v any) ([]map[string]any, error) {
	switch list := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(list))
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: entry %d is not an object", path, i)
			}
			out = append(out, m)
		}
		return out, nil
	case []map[string]any:
		// BurntSushi/toml decodes arrays of tables this way.
		return list, nil
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: expected a list of options", path)
	}
}

func idAndName(item map[string]any) (int, string, error) {
	raw, ok := item["id"]
	if !ok {
		return 0, "", fmt.Errorf("missing id")
	}
	id, ok := toInt(raw)
	if !ok {
		return 0, "", fmt.Errorf("id %v is not an integer", raw)
	}
	name, _ := item["name"].(string)
	return id, name, nil
}

func intField(item map[string]any, keys ...string) int {
	for _, k := range keys {
		if v, ok := item[k]; ok {
			if n, ok := toInt(v); ok {
				return n
			}
		}
	}
	return 0
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := strconv.Atoi(n.String())
		return i, err == nil
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
