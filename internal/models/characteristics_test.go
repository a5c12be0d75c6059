package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeValue_UnmarshalJSON(t *testing.T) {

	t.Run("Success - Scalar Kinds", func(t *testing.T) {
		var c Characteristics
		err := json.Unmarshal([]byte(`{"color":"brown","weight":1.2,"hooded":true}`), &c)

		require.NoError(t, err)
		assert.Equal(t, StringAttribute("brown"), c["color"])
		assert.Equal(t, NumberAttribute(1.2), c["weight"])
		assert.Equal(t, BoolAttribute(true), c["hooded"])
	})

	t.Run("Failure - Nested Object Rejected", func(t *testing.T) {
		var c Characteristics
		err := json.Unmarshal([]byte(`{"sizes":{"s":1}}`), &c)

		assert.Error(t, err)
	})

	t.Run("Failure - Array Rejected", func(t *testing.T) {
		var c Characteristics
		err := json.Unmarshal([]byte(`{"sizes":["s","m"]}`), &c)

		assert.Error(t, err)
	})

	t.Run("Failure - Null Rejected", func(t *testing.T) {
		var c Characteristics
		err := json.Unmarshal([]byte(`{"lining":null}`), &c)

		assert.Error(t, err)
	})
}

func TestAttributeValue_MarshalJSON(t *testing.T) {
	c := Characteristics{
		"color":  StringAttribute("brown"),
		"weight": NumberAttribute(1.2),
		"hooded": BoolAttribute(true),
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "brown", raw["color"])
	assert.Equal(t, 1.2, raw["weight"])
	assert.Equal(t, true, raw["hooded"])
}

func TestCharacteristics_Value(t *testing.T) {

	t.Run("Nil Map Persists As Empty Object", func(t *testing.T) {
		var c Characteristics

		v, err := c.Value()
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(v.([]byte)))
	})
}

func TestCharacteristics_Scan(t *testing.T) {

	t.Run("Null Column Scans To Empty Map", func(t *testing.T) {
		var c Characteristics

		require.NoError(t, c.Scan(nil))
		assert.NotNil(t, c)
		assert.Empty(t, c)
	})

	t.Run("Bytes Column Round Trips", func(t *testing.T) {
		var c Characteristics

		require.NoError(t, c.Scan([]byte(`{"color":"brown"}`)))
		assert.Equal(t, StringAttribute("brown"), c["color"])
	})
}
