// Package catalog holds the static lookup tables that turn numeric ids into
// display names: attribute options and equipment options.
//
// Tables are loaded once at startup (see [LoadFile]) and are read-only
// afterwards. Lookups use exact id matches; a miss falls back to "ID: <id>".
package catalog

import (
	"fmt"
	"strconv"
)

// AttributeOption describes one selectable attribute type.
type AttributeOption struct {
	ID         int    `json:"id" toml:"id" yaml:"id"`
	Name       string `json:"name" toml:"name" yaml:"name"`
	IsPercent  int    `json:"isPercent" toml:"is_percent" yaml:"is_percent"`
	ColorPaint int    `json:"colorPaint" toml:"color_paint" yaml:"color_paint"`
}

// Percent reports whether values of this attribute are shown as percentages.
func (o AttributeOption) Percent() bool { return o.IsPercent != 0 }

// EquipmentOption describes one equipment type. Extra keeps any additional
// keys from the source file.
type EquipmentOption struct {
	ID    int            `json:"id" toml:"id" yaml:"id"`
	Name  string         `json:"name" toml:"name" yaml:"name"`
	Extra map[string]any `json:"-" toml:"-" yaml:"-"`
}

// DefaultAttributeID is used for new rows when no attribute options are loaded.
const DefaultAttributeID = 1

// Catalog is an immutable pair of lookup tables.
type Catalog struct {
	attributes []AttributeOption
	equipment  []EquipmentOption
	attrByID   map[int]int
	equipByID  map[int]int
}

// New builds a catalog. When ids repeat, the first occurrence wins.
func New(attributes []AttributeOption, equipment []EquipmentOption) *Catalog {
	c := &Catalog{
		attributes: append([]AttributeOption(nil), attributes...),
		equipment:  append([]EquipmentOption(nil), equipment...),
		attrByID:   make(map[int]int, len(attributes)),
		equipByID:  make(map[int]int, len(equipment)),
	}
	for i, o := range c.attributes {
		if _, ok := c.attrByID[o.ID]; !ok {
			c.attrByID[o.ID] = i
		}
	}
	for i, o := range c.equipment {
		if _, ok := c.equipByID[o.ID]; !ok {
			c.equipByID[o.ID] = i
		}
	}
	return c
}

// Empty returns a catalog with no options.
func Empty() *Catalog { return New(nil, nil) }

// Attributes returns the attribute options in file order.
func (c *Catalog) Attributes() []AttributeOption {
	return append([]AttributeOption(nil), c.attributes...)
}

// Equipment returns the equipment options in file order.
func (c *Catalog) Equipment() []EquipmentOption {
	return append([]EquipmentOption(nil), c.equipment...)
}

// Attribute looks up an attribute option by id.
func (c *Catalog) Attribute(id int) (AttributeOption, bool) {
	i, ok := c.attrByID[id]
	if !ok {
		return AttributeOption{}, false
	}
	return c.attributes[i], true
}

// EquipmentByID looks up an equipment option by id.
func (c *Catalog) EquipmentByID(id int) (EquipmentOption, bool) {
	i, ok := c.equipByID[id]
	if !ok {
		return EquipmentOption{}, false
	}
	return c.equipment[i], true
}

// AttributeName resolves an attribute id to its display name.
func (c *Catalog) AttributeName(id int) string {
	if o, ok := c.Attribute(id); ok {
		return o.Name
	}
	return fallbackName(strconv.Itoa(id))
}

// EquipmentName resolves the raw text of an equipment id to its display name.
// Non-numeric ids never match.
func (c *Catalog) EquipmentName(rawID string) string {
	if id, err := strconv.Atoi(rawID); err == nil {
		if o, ok := c.EquipmentByID(id); ok {
			return o.Name
		}
	}
	return fallbackName(rawID)
}

// DefaultAttribute returns the attribute id given to newly added rows:
// the first option, or [DefaultAttributeID] when none are loaded.
func (c *Catalog) DefaultAttribute() int {
	if len(c.attributes) == 0 {
		return DefaultAttributeID
	}
	return c.attributes[0].ID
}

func fallbackName(id string) string {
	return fmt.Sprintf("ID: %s", id)
}
