package view

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

func TestSum(t *testing.T) {
	items := []types.Record{
		{"id": "1", "total": 10.5},
		{"id": "2", "total": json.Number("4.5")},
		{"id": "3", "total": "n/a"},
		{"id": "4"},
	}
	assert.InDelta(t, 15.0, Sum(items, "total"), 1e-9)

	products := []types.Product{{ID: "1", Price: 2, Stock: 3}, {ID: "2", Price: 1.25, Stock: 4}}
	assert.InDelta(t, 3.25, Sum(products, "price"), 1e-9)
}

func TestCountBy(t *testing.T) {
	quotes := []types.Quote{
		{ID: "1", Status: types.DocumentDraft},
		{ID: "2", Status: types.DocumentSent},
		{ID: "3", Status: types.DocumentDraft},
	}
	got := CountBy(quotes, "status")
	assert.Equal(t, 2, got[types.DocumentDraft])
	assert.Equal(t, 1, got[types.DocumentSent])

	assert.Equal(t, map[string]int{"": 1}, CountBy([]types.Record{{"id": "1"}}, "status"))
}

func TestFormatMoney(t *testing.T) {
	got, err := FormatMoney(1234.5, "USD", "en")
	require.NoError(t, err)
	assert.Contains(t, got, "1,234.50")
	assert.Contains(t, got, "$")

	neg, err := FormatMoney(-3, "EUR", "en")
	require.NoError(t, err)
	assert.Contains(t, neg, "3.00")
	assert.Equal(t, "-", neg[:1])

	fallback, err := FormatMoney(1, "USD", "not a tag!!")
	require.NoError(t, err)
	assert.Contains(t, fallback, "1.00")

	_, err = FormatMoney(1, "ZZZ", "en")
	assert.Error(t, err)
}
