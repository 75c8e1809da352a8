package amocrm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDOf(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   int64
		wantOK bool
	}{
		{"json number", json.Number("42"), 42, true},
		{"float", float64(42), 42, true},
		{"fractional float", 4.5, 0, false},
		{"int", 7, 7, true},
		{"numeric string", "15", 15, true},
		{"text", "abc", 0, false},
		{"raw response", map[string]any{"response": nil}, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IDOf(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRecord_Has(t *testing.T) {
	rec := Record{"name": "x", "empty": "", "zero": json.Number("0"), "nil": nil}
	assert.True(t, rec.Has("name"))
	assert.False(t, rec.Has("empty"))
	assert.False(t, rec.Has("zero"))
	assert.False(t, rec.Has("nil"))
	assert.False(t, rec.Has("missing"))
}

func TestRecord_Clone(t *testing.T) {
	var nilRec Record
	assert.Equal(t, Record{}, nilRec.Clone())

	rec := Record{"a": 1}
	clone := rec.Clone()
	clone["a"] = 2
	assert.Equal(t, 1, rec["a"])
}

func TestDecode(t *testing.T) {
	type lead struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		StatusID int64   `json:"status_id"`
		Tags     []any   `json:"tags"`
	}

	var got lead
	err := Decode(Record{
		"id":        json.Number("12"),
		"name":      "Deal",
		"price":     json.Number("99.5"),
		"status_id": "142",
		"tags":      []any{},
		"ignored":   true,
	}, &got)
	require.NoError(t, err)

	assert.Equal(t, int64(12), got.ID)
	assert.Equal(t, "Deal", got.Name)
	assert.Equal(t, 99.5, got.Price)
	assert.Equal(t, int64(142), got.StatusID)
}
