package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type AttributeKind int

const (
	AttributeString AttributeKind = iota
	AttributeNumber
	AttributeBool
)

// AttributeValue is one value of a product's open characteristics map.
// The map is schema-less on the wire but each value must be a string, a
// number or a bool, never a nested object or array.
type AttributeValue struct {
	Kind AttributeKind
	Str  string
	Num  float64
	Bool bool
}

func StringAttribute(s string) AttributeValue {
	return AttributeValue{Kind: AttributeString, Str: s}
}

func NumberAttribute(n float64) AttributeValue {
	return AttributeValue{Kind: AttributeNumber, Num: n}
}

func BoolAttribute(b bool) AttributeValue {
	return AttributeValue{Kind: AttributeBool, Bool: b}
}

func (v AttributeValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AttributeNumber:
		return json.Marshal(v.Num)
	case AttributeBool:
		return json.Marshal(v.Bool)
	default:
		return json.Marshal(v.Str)
	}
}

func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch val := raw.(type) {
	case string:
		*v = StringAttribute(val)
	case float64:
		*v = NumberAttribute(val)
	case bool:
		*v = BoolAttribute(val)
	default:
		return fmt.Errorf("characteristic value must be a string, number or bool, got %T", raw)
	}

	return nil
}

// Characteristics is the open key → value attribute map on a product,
// persisted as a single JSONB column.
type Characteristics map[string]AttributeValue

func (c Characteristics) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal(Characteristics{})
	}

	return json.Marshal(c)
}

func (c *Characteristics) Scan(src any) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, c)
	case string:
		return json.Unmarshal([]byte(data), c)
	case nil:
		*c = Characteristics{}
		return nil
	default:
		return fmt.Errorf("unsupported characteristics column type %T", src)
	}
}
