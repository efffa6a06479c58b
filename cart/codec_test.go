package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	c := Empty().
		Add(p1).
		Add(Product{ID: "p2", Title: "Mug", ImageURL: "https://img/mug.png", Price: 4.5}).
		Increment("p2").
		Increment("p2")

	data, err := Marshal(c)
	require.NoError(t, err)

	got, dropped, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, c, got)
}

func TestMarshalFieldNames(t *testing.T) {
	data, err := Marshal(Empty().Add(p1))
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, map[string]any{
		"id":        "p1",
		"title":     "T",
		"image_url": "u",
		"price":     10.0,
		"quantity":  1.0,
	}, raw[0])
}

func TestMarshalNilIsEmptyArray(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestUnmarshalPersistedValue(t *testing.T) {
	got, dropped, err := Unmarshal([]byte(`[{"id":"p1","title":"T","image_url":"u","price":10,"quantity":3}]`))
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, Cart{{ID: "p1", Title: "T", ImageURL: "u", Price: 10, Quantity: 3}}, got)
}

func TestUnmarshalBlankAndNull(t *testing.T) {
	for _, in := range []string{"", "  ", "null"} {
		got, _, err := Unmarshal([]byte(in))
		require.NoError(t, err, in)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	for _, in := range []string{"{", `{"id":"p1"}`, `[1,2]`, "not json"} {
		got, _, err := Unmarshal([]byte(in))
		assert.Error(t, err, in)
		assert.Empty(t, got)
	}
}

func TestUnmarshalDropsInvalidEntries(t *testing.T) {
	in := `[
		{"id":"a","quantity":1},
		{"id":"","quantity":2},
		{"id":"b","quantity":0},
		{"id":"a","quantity":5},
		{"id":"c","quantity":-1},
		{"id":"d","quantity":2}
	]`
	got, dropped, err := Unmarshal([]byte(in))
	require.NoError(t, err)

	assert.Equal(t, Cart{{ID: "a", Quantity: 1}, {ID: "d", Quantity: 2}}, got)
	require.Len(t, dropped, 4)
	assert.Equal(t, "duplicate id", dropped[2].Reason)
	assert.Equal(t, 3, dropped[2].Index)
}
